package crm

// CreateContactInput is what the queue worker hands us for a captured lead.
type CreateContactInput struct {
	Name    string
	Email   string
	Service string
	Plan    string
	Message string
}

type createContactRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Source     string            `json:"source"`
	Tags       []string          `json:"tags"`
	Attributes map[string]string `json:"attributes"`
}

type contactResponse struct {
	ID string `json:"id"`
}

package mail

type EmailSender struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

type LeadEmailData struct {
	Name    string
	Email   string
	Service string
	Plan    string
	Message string
}

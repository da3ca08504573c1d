package mail

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
)

func TestLeadEmailDataDefaultsAbsentOptionals(t *testing.T) {
	lead := &entity.Lead{Name: "A", Email: "a@x.com", Message: "hi"}

	data := leadEmailData(lead)

	assert.Equal(t, "—", data.Service)
	assert.Equal(t, "—", data.Plan)
	assert.Equal(t, "hi", data.Message)
}

func TestNotificationTemplateRenders(t *testing.T) {
	var body bytes.Buffer
	err := notificationTmpl.Execute(&body, LeadEmailData{
		Name:    "A",
		Email:   "a@x.com",
		Service: "SEO",
		Plan:    "Business",
		Message: "need an audit",
	})

	assert.NoError(t, err)
	assert.Contains(t, body.String(), "a@x.com")
	assert.Contains(t, body.String(), "need an audit")
}

func TestAcknowledgmentTemplateEscapesHTML(t *testing.T) {
	var body bytes.Buffer
	err := acknowledgmentTmpl.Execute(&body, LeadEmailData{
		Name:    "A",
		Message: "<script>alert(1)</script>",
	})

	assert.NoError(t, err)
	assert.NotContains(t, body.String(), "<script>")
}

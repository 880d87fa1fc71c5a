package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_SMSLead(t *testing.T) {
	out, err := Default().Render(SMSLead, Bindings{
		"name":  "Ravi Kumar",
		"email": "ravi@example.com",
		"phone": "+91 98765 43210",
		"time":  "1/6/2024, 3:30:00 pm",
	})
	require.NoError(t, err)

	want := "🏗️ HPS NEW LEAD!\n\n👤 Ravi Kumar\n📧 ravi@example.com\n📱 +91 98765 43210\n\n⏰ 1/6/2024, 3:30:00 pm\n\nCheck your email for details!"
	assert.Equal(t, want, out)
}

func TestRender_QueryDefaultsEmptyQuery(t *testing.T) {
	out, err := Default().Render(WhatsAppQuery, Bindings{
		"business_name": "HPS Constructions",
		"name":          "Ravi",
		"phone":         "9876543210",
		"service":       "Bulk Supply",
		"query":         "",
		"submitted":     "1 Jun 2024, 3:30 pm",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "📝 *Query:* —")
	assert.True(t, strings.HasPrefix(out, "🏗️ *New Query – HPS Constructions*"))
}

func TestRender_EmailSkipsEmptyOptionalLines(t *testing.T) {
	out, err := New().Render(EmailLead, Bindings{
		"business_name":    "HPS Constructions",
		"from_name":        "Ravi",
		"phone_number":     "9876543210",
		"from_email":       "",
		"service_needed":   "",
		"project_location": "",
		"product":          "Bamboo Flooring (₹450/sq ft)",
		"user_query":       "—",
		"interaction_type": "product_interest",
		"submission_time":  "Saturday, 1 June 2024 at 3:30 pm",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "Email:")
	assert.NotContains(t, out, "Location:")
	assert.Contains(t, out, "Product: Bamboo Flooring (₹450/sq ft)")
	assert.Contains(t, out, "Service: —")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := New().Render("nope", nil)
	assert.Error(t, err)
}

func TestTimeFormats(t *testing.T) {
	ts := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "Saturday, 1 June 2024 at 3:30 pm", FullTime(ts))
	assert.Equal(t, "1 Jun 2024, 3:30 pm", MediumTime(ts))
	assert.Equal(t, "1/6/2024, 3:30:00 pm", ShortTime(ts))
}

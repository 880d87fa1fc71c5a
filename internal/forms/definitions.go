package forms

// Services are the offerings a visitor can pick from.
var Services = []string{
	"Bamboo Flooring",
	"Bamboo Wall Panels",
	"Bamboo Furniture",
	"POP Ceiling Design",
	"POP Wall Installation",
	"POP Decorative Items",
	"Bulk Supply",
	"Custom Solutions",
}

// Form ids.
const (
	QueryFormID    = "query"
	ContactFormID  = "contact"
	CallbackFormID = "callback"
)

// Action ids.
const (
	ActionSubmit = "submit"
	ActionCancel = "cancel"
	ActionClose  = "close"
)

const (
	nameMessage    = "Name must be at least 2 characters"
	phoneMessage   = "Please enter a valid phone number"
	emailMessage   = "Please enter a valid email address"
	serviceMessage = "Please select the service you need"
	detailsMessage = "Please tell us about your project"
)

func nameField() Field {
	return Field{
		Name: "name", Label: "Full Name", Kind: KindText,
		Placeholder: "Enter your full name", Rules: "min=2", Message: nameMessage,
	}
}

func phoneField() Field {
	return Field{
		Name: "phone", Label: "Phone Number", Kind: KindTel,
		Placeholder: "+91 98765 43210", Rules: "leadphone", Message: phoneMessage,
	}
}

func emailField() Field {
	return Field{
		Name: "email", Label: "Email Address", Kind: KindEmail,
		Placeholder: "your.email@example.com", Rules: "email", Message: emailMessage,
	}
}

func serviceField() Field {
	return Field{
		Name: "service", Label: "Service Needed", Kind: KindSelect,
		Placeholder: "Select a service", Options: Services, Message: serviceMessage,
	}
}

// QueryForm is the floating query widget.
func QueryForm() Definition {
	return Definition{
		ID:           QueryFormID,
		Title:        "Contact HPS Constructions",
		WelcomeTitle: "👋 Welcome to HPS Constructions!",
		Subtitle:     "We're here to help with all your bamboo and POP construction needs!",
		Banner:       "📧 Your message will be sent instantly",
		Fields: []Field{
			nameField(),
			serviceField(),
			phoneField(),
			{
				Name: "query", Label: "Your Query", Kind: KindTextarea,
				Placeholder: "Tell us about your project (optional)",
			},
		},
		Actions: []Action{
			{
				ID: ActionSubmit, Label: "Send Message", Effect: EffectSend,
				Required: []string{"name", "phone", "service"}, Interaction: "form_submit", WhatsApp: true,
			},
			{
				ID: ActionCancel, Label: "Maybe Later", Effect: EffectSendOnCancel,
				Required: []string{"name", "phone"}, Interaction: "form_cancel", WhatsApp: true,
			},
			{ID: ActionClose, Label: "✕", Effect: EffectDismiss},
		},
		SuccessToast: "🎉 Message sent via Email & WhatsApp!",
		FailureToast: "❌ Failed to send email. WhatsApp message sent.",
	}
}

// ContactForm is the contact page form.
func ContactForm() Definition {
	return Definition{
		ID:       ContactFormID,
		Title:    "Send Us a Message",
		Subtitle: "Fill out the form below and we'll get back to you within 24 hours",
		Fields: []Field{
			nameField(),
			emailField(),
			phoneField(),
			func() Field {
				f := serviceField()
				f.Label = "Service Required"
				return f
			}(),
			{
				Name: "location", Label: "Project Location", Kind: KindText,
				Placeholder: "City, State",
			},
			{
				Name: "message", Label: "Project Details", Kind: KindTextarea,
				Placeholder: "Tell us about your project requirements...", ProfileField: "query",
				Message: detailsMessage,
			},
		},
		Actions: []Action{
			{
				ID: ActionSubmit, Label: "Send Message", Effect: EffectSend,
				Required: []string{"name", "phone", "email", "message"}, Interaction: "contact_page", WhatsApp: true,
			},
		},
		SuccessToast: "🎉 Message sent via Email & WhatsApp!",
		FailureToast: "❌ Failed to send email. WhatsApp message sent.",
	}
}

// CallbackForm is the callback request popup. It goes out by email only.
func CallbackForm() Definition {
	return Definition{
		ID:       CallbackFormID,
		Title:    "Contact HPS Constructions",
		Subtitle: "Get in touch with us for your construction needs",
		Fields: []Field{
			nameField(),
			emailField(),
			phoneField(),
			{
				Name: "query", Label: "Your Query", Kind: KindTextarea,
				Placeholder: "Describe your requirements...", Rules: "min=10",
				Message: "Query must be at least 10 characters",
			},
		},
		Actions: []Action{
			{
				ID: ActionSubmit, Label: "Send Message", Effect: EffectSend,
				Required: []string{"name", "email", "phone", "query"}, Interaction: "callback_request",
			},
			{ID: ActionClose, Label: "✕", Effect: EffectDismiss},
		},
		SuccessToast: "🎉 Message sent successfully!",
		FailureToast: "❌ Failed to send message. Please try again.",
	}
}

// DefaultRegistry holds every form the site ships.
func DefaultRegistry() *Registry {
	return NewRegistry(QueryForm(), ContactForm(), CallbackForm())
}

package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestQuerySubmit_RequiresService(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(QueryForm(), ActionSubmit, map[string]string{
		"name":  "Ravi",
		"phone": "9876543210",
	})
	fields := validationFields(t, err)
	assert.Equal(t, map[string]string{"service": serviceMessage}, fields)
}

func TestQueryCancel_ServiceOptional(t *testing.T) {
	v := NewValidator()
	values, err := v.Check(QueryForm(), ActionCancel, map[string]string{
		"name":  "  Ravi ",
		"phone": "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", values["name"])
}

func TestQueryCancel_StillNeedsNameAndPhone(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(QueryForm(), ActionCancel, map[string]string{"name": "R", "phone": "12345"})
	fields := validationFields(t, err)
	assert.Equal(t, nameMessage, fields["name"])
	assert.Equal(t, phoneMessage, fields["phone"])
	assert.NotContains(t, fields, "service")
}

func TestQueryClose_NeverFails(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(QueryForm(), ActionClose, nil)
	assert.NoError(t, err)
}

func TestQuerySubmit_Valid(t *testing.T) {
	v := NewValidator()
	values, err := v.Check(QueryForm(), ActionSubmit, map[string]string{
		"name":    "Al",
		"phone":   "+91 (955) 563-3827",
		"service": "POP Ceiling Design",
		"extra":   "dropped",
	})
	require.NoError(t, err)
	assert.NotContains(t, values, "extra")
}

func TestQuerySubmit_UnknownService(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(QueryForm(), ActionSubmit, map[string]string{
		"name": "Ravi", "phone": "9876543210", "service": "Plumbing",
	})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "service")
}

func TestCallbackSubmit_Rules(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(CallbackForm(), ActionSubmit, map[string]string{
		"name": "Ravi", "email": "not-an-email", "phone": "9876543210", "query": "too short",
	})
	fields := validationFields(t, err)
	assert.Equal(t, emailMessage, fields["email"])
	assert.Equal(t, "Query must be at least 10 characters", fields["query"])

	_, err = v.Check(CallbackForm(), ActionSubmit, map[string]string{
		"name": "Ravi", "email": "ravi@example.com", "phone": "9876543210", "query": "Need a ceiling quote",
	})
	assert.NoError(t, err)
}

func TestContactSubmit_EmailFormatValidated(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(ContactForm(), ActionSubmit, map[string]string{
		"name": "Ravi", "phone": "9876543210", "email": "ravi@example.com", "message": "Need a quote",
	})
	require.NoError(t, err)

	_, err = v.Check(ContactForm(), ActionSubmit, map[string]string{
		"name": "Ravi", "phone": "9876543210", "email": "bad@", "message": "Need a quote",
	})
	assert.Contains(t, validationFields(t, err), "email")
}

func TestCheck_UnknownAction(t *testing.T) {
	v := NewValidator()
	_, err := v.Check(ContactForm(), ActionCancel, nil)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestDefinition_ProfileMapping(t *testing.T) {
	def := ContactForm()
	patch := def.ProfilePatch(map[string]string{"message": "Need flooring", "location": "Lucknow"})
	require.NotNil(t, patch.Query)
	assert.Equal(t, "Need flooring", *patch.Query)
	require.NotNil(t, patch.Location)
	assert.Nil(t, patch.Name)

	prefill := def.Prefill(patch.Apply(profileWithName("Asha")))
	assert.Equal(t, "Need flooring", prefill["message"])
	assert.Equal(t, "Asha", prefill["name"])
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"callback", "contact", "query"}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestContactSubmit_RequiresEmailAndMessage(t *testing.T) {
	v := NewValidator()
	valid := map[string]string{
		"name":    "Ravi Kumar",
		"phone":   "9876543210",
		"email":   "ravi@example.com",
		"message": "False ceiling for two rooms",
	}
	_, err := v.Check(ContactForm(), ActionSubmit, valid)
	require.NoError(t, err)

	for field, msg := range map[string]string{"email": emailMessage, "message": detailsMessage} {
		values := make(map[string]string, len(valid))
		for k, val := range valid {
			values[k] = val
		}
		delete(values, field)

		_, err := v.Check(ContactForm(), ActionSubmit, values)
		fields := validationFields(t, err)
		assert.Equal(t, map[string]string{field: msg}, fields, "missing %s", field)
	}
}

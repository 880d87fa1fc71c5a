// Package profile owns the visitor's persisted contact details.
package profile

import (
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]{7,15}$`)

// ValidPhone reports whether phone looks like a phone number: an optional
// leading plus followed by 7-15 digits, spaces, dashes or parentheses.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ContactProfile is a lead's identity fields as captured by the forms.
type ContactProfile struct {
	Name        string     `json:"name" dynamodbav:"name"`
	Phone       string     `json:"phone" dynamodbav:"phone"`
	Service     string     `json:"service,omitempty" dynamodbav:"service,omitempty"`
	Query       string     `json:"query,omitempty" dynamodbav:"query,omitempty"`
	Email       string     `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Location    string     `json:"location,omitempty" dynamodbav:"location,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty" dynamodbav:"submitted_at,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty" dynamodbav:"cancelled_at,omitempty"`
}

// Complete reports whether the profile carries enough to contact the lead:
// a name of at least two characters and a plausible phone number.
func (p ContactProfile) Complete() bool {
	name := strings.TrimSpace(p.Name)
	phone := strings.TrimSpace(p.Phone)
	return len([]rune(name)) >= 2 && len(phone) >= 7 && ValidPhone(phone)
}

// IsEmpty reports whether no contact field has been filled in.
func (p ContactProfile) IsEmpty() bool {
	for _, v := range p.Values() {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Values returns the editable fields keyed by form field name.
func (p ContactProfile) Values() map[string]string {
	return map[string]string{
		FieldName:     p.Name,
		FieldPhone:    p.Phone,
		FieldService:  p.Service,
		FieldQuery:    p.Query,
		FieldEmail:    p.Email,
		FieldLocation: p.Location,
	}
}

// Form field names shared with the form definitions.
const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldService  = "service"
	FieldQuery    = "query"
	FieldEmail    = "email"
	FieldLocation = "location"
)

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Service  *string `json:"service,omitempty"`
	Query    *string `json:"query,omitempty"`
	Email    *string `json:"email,omitempty"`
	Location *string `json:"location,omitempty"`
}

// PatchFromValues builds a patch setting every known field present in values.
func PatchFromValues(values map[string]string) Patch {
	var p Patch
	pick := func(key string) *string {
		if v, ok := values[key]; ok {
			return &v
		}
		return nil
	}
	p.Name = pick(FieldName)
	p.Phone = pick(FieldPhone)
	p.Service = pick(FieldService)
	p.Query = pick(FieldQuery)
	p.Email = pick(FieldEmail)
	p.Location = pick(FieldLocation)
	return p
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Service == nil &&
		p.Query == nil && p.Email == nil && p.Location == nil
}

// Apply returns a copy of cp with the patch applied.
func (p Patch) Apply(cp ContactProfile) ContactProfile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cp.Name, p.Name)
	set(&cp.Phone, p.Phone)
	set(&cp.Service, p.Service)
	set(&cp.Query, p.Query)
	set(&cp.Email, p.Email)
	set(&cp.Location, p.Location)
	return cp
}

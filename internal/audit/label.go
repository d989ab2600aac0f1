package audit

import "fmt"

// labelFields is checked in order; the first non-empty one wins.
var labelFields = []string{
	"name",
	"title",
	"class_name",
	"applicant_name",
	"organization_name",
	"group_name",
	"email",
}

// ResolveLabel picks a short human-readable label for any record.
func ResolveLabel(r Record) *string {
	return labelFrom(r.Attributes())
}

func labelFrom(attrs map[string]any) *string {
	for _, field := range labelFields {
		v, ok := attrs[field]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s == "" {
			continue
		}
		return &s
	}
	return nil
}

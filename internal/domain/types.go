package domain

// Form sections, named as the client sends them.
const (
	SectionPatientDetails = "patientDetails"
	SectionTripRoute      = "tripRoute"
	SectionFinancials     = "financials"
)

// FormErrors maps section -> field -> human-readable message.
type FormErrors map[string]map[string]string

func NewFormErrors() FormErrors {
	return FormErrors{
		SectionPatientDetails: {},
		SectionTripRoute:      {},
		SectionFinancials:     {},
	}
}

func (e FormErrors) Add(section, field, msg string) {
	if e[section] == nil {
		e[section] = map[string]string{}
	}
	e[section][field] = msg
}

// Clear removes a single field entry and reports whether one existed.
func (e FormErrors) Clear(section, field string) bool {
	fields, ok := e[section]
	if !ok {
		return false
	}
	if _, ok := fields[field]; !ok {
		return false
	}
	delete(fields, field)
	return true
}

func (e FormErrors) Has(section, field string) bool {
	_, ok := e[section][field]
	return ok
}

// Count returns the number of section/field entries.
func (e FormErrors) Count() int {
	n := 0
	for _, fields := range e {
		n += len(fields)
	}
	return n
}

func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for section, fields := range e {
		cp := make(map[string]string, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		out[section] = cp
	}
	return out
}

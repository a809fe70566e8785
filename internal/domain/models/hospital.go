package models

// Hospital is read-only reference data from hospital_locations.
type Hospital struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// FindHospital looks a hospital up by its display name.
func FindHospital(hospitals []Hospital, name string) (Hospital, bool) {
	for _, h := range hospitals {
		if h.Name == name {
			return h, true
		}
	}
	return Hospital{}, false
}

package domain

// Passenger represents a trip requester.
type Passenger struct {
	ID       int64
	Name     string
	PhoneNum string
}

// Validate checks the fields required to persist a passenger.
func (p *Passenger) Validate() error {
	if isBlank(p.Name) {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if isBlank(p.PhoneNum) {
		return &ValidationError{Field: "phone_num", Reason: "must not be blank"}
	}
	return nil
}

// PassengerPatch is a partial update to a passenger.
type PassengerPatch struct {
	Name     *string
	PhoneNum *string
}

// Apply copies the supplied fields onto p.
func (pp PassengerPatch) Apply(p *Passenger) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.PhoneNum != nil {
		p.PhoneNum = *pp.PhoneNum
	}
}

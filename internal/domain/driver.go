package domain

// Driver represents a vehicle operator.
//
// Active is the availability flag: false while the driver can take a new
// trip, true while the driver is on one.
type Driver struct {
	ID     int64
	Name   string
	VIN    string
	Active bool
}

// Available reports whether the driver can be assigned a new trip.
func (d *Driver) Available() bool {
	return !d.Active
}

// Validate checks the fields required to persist a driver.
func (d *Driver) Validate() error {
	if isBlank(d.Name) {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if isBlank(d.VIN) {
		return &ValidationError{Field: "vin", Reason: "must not be blank"}
	}
	return nil
}

// DriverPatch is a partial update to a driver. Nil fields are left untouched.
type DriverPatch struct {
	Name   *string
	VIN    *string
	Active *bool
}

// Apply copies the supplied fields onto d.
func (p DriverPatch) Apply(d *Driver) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.VIN != nil {
		d.VIN = *p.VIN
	}
	if p.Active != nil {
		d.Active = *p.Active
	}
}

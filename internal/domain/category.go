package domain

// Category groups services of one kind (medical, legal, counselling ...)
type Category struct {
	ID                  string
	Name                string
	Description         string
	RequiresAppointment bool
	AdvanceBookingDays  int // 0 = unlimited
}

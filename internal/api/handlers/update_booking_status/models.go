package update_booking_status

// UpdateStatusRequest HTTP модель запроса смены статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

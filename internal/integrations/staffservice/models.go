package staffservice

// Availability модель доступности сотрудника на дату из StaffService
type Availability struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"` // working, day_off, vacation, sick_leave
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

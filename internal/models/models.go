package models

// AvailableSlot - элемент ответа доступности льда на дату
type AvailableSlot struct {
	Date        Date      `json:"date"`
	Start       TimeOfDay `json:"time_start"`
	End         TimeOfDay `json:"time_end"`
	Price       Money     `json:"price"`
	IsAvailable bool      `json:"is_available"`
	BookedBy    *string   `json:"booked_by"`
}

// AvailabilityResponse - список слотов в порядке начала
type AvailabilityResponse []AvailableSlot

// ValidateBookingRequest - проверка интервала без создания заявки
type ValidateBookingRequest struct {
	Date  *Date      `json:"date" binding:"required"`
	Start *TimeOfDay `json:"time_start" binding:"required"`
	End   *TimeOfDay `json:"time_end" binding:"required"`
}

// ValidateBookingResponse - рассчитанная длительность аренды
type ValidateBookingResponse struct {
	DurationHours float64 `json:"duration_hours"`
}

// CreateBookingRequest - модель для создания заявки на аренду льда
type CreateBookingRequest struct {
	Date    *Date      `json:"date" binding:"required"`
	Start   *TimeOfDay `json:"time_start" binding:"required"`
	End     *TimeOfDay `json:"time_end" binding:"required"`
	Name    string     `json:"name" binding:"required,person_name"`
	Phone   string     `json:"phone" binding:"required,phone"`
	Message string     `json:"message" binding:"booking_message"`
}

// UpdateBookingStatusRequest - административная смена статуса заявки
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

// GenerateSeatsRequest - генерация сетки мест. Либо Preset, либо явная раскладка.
type GenerateSeatsRequest struct {
	Preset      string     `json:"preset" binding:"omitempty,oneof=small medium large"`
	Sectors     []string   `json:"sectors" binding:"omitempty,unique,dive,required,max=10"`
	Rows        int        `json:"rows" binding:"omitempty,min=1,max=100"`
	SeatsPerRow int        `json:"seats_per_row" binding:"omitempty,min=1,max=200"`
	Tiers       PriceTiers `json:"tiers"`
}

// GenerateSeatsResponse - результат генерации
type GenerateSeatsResponse struct {
	SchemaID int64 `json:"schema_id"`
	Seats    int   `json:"seats"`
}

// PriceTiers - границы ценовых зон по рядам.
// Ряды 1..FrontRows продаются по максимальной цене, FrontRows+1..MiddleRows по средней, остальные по минимальной.
type PriceTiers struct {
	FrontRows  int `json:"front_rows" binding:"min=0"`
	MiddleRows int `json:"middle_rows" binding:"min=0"`
}

// SeatLayout describes a rectangular seat grid repeated per sector.
type SeatLayout struct {
	Sectors     []string   `json:"sectors"`
	Rows        int        `json:"rows"`
	SeatsPerRow int        `json:"seats_per_row"`
	Tiers       PriceTiers `json:"tiers"`
}

// Capacity returns the number of seats the layout produces.
func (l SeatLayout) Capacity() int {
	return len(l.Sectors) * l.Rows * l.SeatsPerRow
}

// PurchaseTicketRequest - покупка билета на место
type PurchaseTicketRequest struct {
	EventID int64 `json:"event" binding:"required"`
	SeatID  int64 `json:"seat" binding:"required"`
}

// TicketResponse - билет с информацией о месте
type TicketResponse struct {
	Ticket
	Seat *Seat `json:"seat_info,omitempty"`
}

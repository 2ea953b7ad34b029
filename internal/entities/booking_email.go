package entities

type BookingEmailData struct {
	CustomerName     string
	BookingCode      string
	ServiceType      string
	SessionFormatted string
	DepositFormatted string
	TotalFormatted   string
	CurrentYear      int
	Status           string
}

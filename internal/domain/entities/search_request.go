package entities

// HotelSearchRequest is a validated hotel search input. Immutable once bound.
type HotelSearchRequest struct {
	Location string `json:"location" validate:"required,min=2"`
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Adults   int    `json:"adults" validate:"required,min=1,max=9"`
	Children int    `json:"children" validate:"min=0,max=9"`
	Rooms    int    `json:"rooms" validate:"min=0,max=9"`
}

// FlightSearchRequest is a validated flight search input.
type FlightSearchRequest struct {
	Origin        string `json:"origin" validate:"required,min=3"`
	Destination   string `json:"destination" validate:"required,min=3"`
	DepartureDate string `json:"departureDate" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"returnDate" validate:"omitempty,datetime=2006-01-02"`
	Adults        int    `json:"adults" validate:"required,min=1,max=9"`
	Children      int    `json:"children" validate:"min=0,max=9"`
	TravelClass   string `json:"travelClass" validate:"omitempty,oneof=ECONOMY PREMIUM_ECONOMY BUSINESS FIRST"`
}

// CarSearchRequest is a validated car rental search input.
type CarSearchRequest struct {
	PickupLocation  string `json:"pickupLocation" validate:"required,min=2"`
	DropoffLocation string `json:"dropoffLocation" validate:"required,min=2"`
	PickupDate      string `json:"pickupDate" validate:"required,datetime=2006-01-02"`
	DropoffDate     string `json:"dropoffDate" validate:"required,datetime=2006-01-02"`
	PickupTime      string `json:"pickupTime" validate:"required,datetime=15:04"`
	DropoffTime     string `json:"dropoffTime" validate:"required,datetime=15:04"`
}

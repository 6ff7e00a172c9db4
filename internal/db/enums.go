package db

// User roles. ADMIN and EMPLOYEE act as operators on bookings.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
	RoleEmployee = "EMPLOYEE"
)

// IsOperator reports whether the role may drive booking status beyond
// renter-initiated cancellation.
func IsOperator(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// Vehicle statuses. Transitions are a side effect of booking lifecycle
// events, not directly settable by renters.
const (
	VehicleAvailable    = "AVAILABLE"
	VehicleRented       = "RENTED"
	VehicleMaintenance  = "MAINTENANCE"
	VehicleOutOfService = "OUT_OF_SERVICE"
)

var vehicleStatuses = map[string]struct{}{
	VehicleAvailable:    {},
	VehicleRented:       {},
	VehicleMaintenance:  {},
	VehicleOutOfService: {},
}

func ValidVehicleStatus(s string) bool {
	_, ok := vehicleStatuses[s]
	return ok
}

var vehicleTypes = map[string]struct{}{
	"SEDAN":       {},
	"SUV":         {},
	"HATCHBACK":   {},
	"COUPE":       {},
	"CONVERTIBLE": {},
	"WAGON":       {},
	"PICKUP":      {},
	"VAN":         {},
	"MOTORCYCLE":  {},
}

func ValidVehicleType(s string) bool {
	_, ok := vehicleTypes[s]
	return ok
}

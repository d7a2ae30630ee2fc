package list_appointments

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/service/appointments/models"
)

// ToServiceRequest собирает фильтр из query параметров:
// date, employeeId, clientId, status, q, includeInactive
func ToServiceRequest(r *http.Request) (*models.ListAppointmentsRequest, error) {
	query := r.URL.Query()

	employeeID, err := handlers.QueryID(r, "employeeId")
	if err != nil {
		return nil, err
	}
	clientID, err := handlers.QueryID(r, "clientId")
	if err != nil {
		return nil, err
	}

	includeInactive := false
	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive %q", raw)
		}
	}

	return &models.ListAppointmentsRequest{
		Date:            query.Get("date"),
		EmployeeID:      employeeID,
		ClientID:        clientID,
		Status:          handlers.QueryString(r, "status"),
		Search:          query.Get("q"),
		IncludeInactive: includeInactive,
	}, nil
}

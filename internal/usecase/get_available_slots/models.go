package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// Settings правила записи барбершопа
type Settings struct {
	MinBookingNoticeMinutes int // Минимальное время до начала записи
	AdvanceBookingDays      int // 0 = без ограничений
}

// Request модель запроса на получение доступных слотов
type Request struct {
	EmployeeID int64     // ID барбера
	ServiceID  int64     // ID услуги
	Date       time.Time // Календарная дата, время и часовой пояс не учитываются
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Начало запрошенного дня в часовом поясе барбершопа
	EmployeeID      int64
	ServiceID       int64
	DurationMinutes int    // Длительность услуги
	Slots           []Slot // Свободные слоты по возрастанию времени
}

// Slot модель свободного слота
type Slot struct {
	StartAt   time.Time
	StartTime types.TimeString // Время начала, например "10:00"
	EndTime   types.TimeString // Время окончания услуги
}

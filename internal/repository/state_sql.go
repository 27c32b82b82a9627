package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"slotplanner/internal/domain"
)

// SQLStateRepository persists the scheduling state relationally through
// gorm. Saves replace the previous snapshot wholesale inside one
// transaction; Load rebuilds the state from the tables.
type SQLStateRepository struct {
	db *gorm.DB
}

func NewSQLStateRepository(db *gorm.DB) (*SQLStateRepository, error) {
	if err := db.AutoMigrate(&slotTypeRow{}, &crewRow{}, &bookingRow{}, &counterRow{}); err != nil {
		return nil, fmt.Errorf("migrate state schema: %w", err)
	}
	return &SQLStateRepository{db: db}, nil
}

type slotTypeRow struct {
	Name     string `gorm:"column:name;primaryKey"`
	Minutes  int    `gorm:"column:minutes"`
	Weight   float64
	Position int `gorm:"column:position"`
}

func (slotTypeRow) TableName() string { return "slot_types" }

type crewRow struct {
	Name      string `gorm:"column:name;primaryKey"`
	WorkStart string `gorm:"column:work_start"`
	WorkEnd   string `gorm:"column:work_end"`
	Position  int    `gorm:"column:position"`
}

func (crewRow) TableName() string { return "crews" }

type bookingRow struct {
	ID           string     `gorm:"column:id;primaryKey"`
	Crew         string     `gorm:"column:crew;uniqueIndex:idx_no_overbooking"`
	Day          string     `gorm:"column:day;uniqueIndex:idx_no_overbooking"`
	StartTime    time.Time  `gorm:"column:start_time;uniqueIndex:idx_no_overbooking"`
	EndTime      time.Time  `gorm:"column:end_time"`
	SlotType     string     `gorm:"column:slot_type"`
	DurationMin  int        `gorm:"column:duration_min"`
	Client       string     `gorm:"column:client"`
	ArrivalStart *time.Time `gorm:"column:arrival_start"`
	ArrivalEnd   *time.Time `gorm:"column:arrival_end"`
	Label        string     `gorm:"column:label"`
}

func (bookingRow) TableName() string { return "bookings" }

type counterRow struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int    `gorm:"column:value"`
}

func (counterRow) TableName() string { return "counters" }

const (
	counterClients  = "client_counter"
	counterNotFound = "not_found_counter"
)

func toBookingRow(b domain.Booking) bookingRow {
	row := bookingRow{
		ID:          b.ID,
		Crew:        b.Crew,
		Day:         b.Day,
		StartTime:   b.Start,
		EndTime:     b.End,
		SlotType:    b.SlotType,
		DurationMin: b.DurationMin,
		Client:      b.Client,
		Label:       b.Label,
	}
	if b.Arrival != nil {
		s, e := b.Arrival.Start, b.Arrival.End
		row.ArrivalStart, row.ArrivalEnd = &s, &e
	}
	return row
}

func toDomainBooking(row bookingRow) domain.Booking {
	b := domain.Booking{
		ID:          row.ID,
		Crew:        row.Crew,
		Day:         row.Day,
		Start:       row.StartTime,
		End:         row.EndTime,
		SlotType:    row.SlotType,
		DurationMin: row.DurationMin,
		Client:      row.Client,
		Label:       row.Label,
	}
	if row.ArrivalStart != nil && row.ArrivalEnd != nil {
		b.Arrival = &domain.ArrivalWindow{Start: *row.ArrivalStart, End: *row.ArrivalEnd}
	}
	return b
}

// Load reports found=false until the first Save wrote the counter rows.
func (r *SQLStateRepository) Load() (*domain.State, bool, error) {
	var counters []counterRow
	if err := r.db.Find(&counters).Error; err != nil {
		return nil, false, fmt.Errorf("load counters: %w", err)
	}
	if len(counters) == 0 {
		return nil, false, nil
	}

	state := &domain.State{
		WorkingHours: map[string]domain.WorkingHours{},
		Schedules:    map[string]domain.DaySchedules{},
	}
	for _, c := range counters {
		switch c.Name {
		case counterClients:
			state.ClientCounter = c.Value
		case counterNotFound:
			state.NotFoundCounter = c.Value
		}
	}

	var types []slotTypeRow
	if err := r.db.Order("position").Find(&types).Error; err != nil {
		return nil, false, fmt.Errorf("load slot types: %w", err)
	}
	for _, t := range types {
		state.SlotTypes = append(state.SlotTypes, domain.SlotType{Name: t.Name, Minutes: t.Minutes, Weight: t.Weight})
	}

	var crews []crewRow
	if err := r.db.Order("position").Find(&crews).Error; err != nil {
		return nil, false, fmt.Errorf("load crews: %w", err)
	}
	for _, c := range crews {
		state.Crews = append(state.Crews, c.Name)
		state.WorkingHours[c.Name] = domain.WorkingHours{Start: c.WorkStart, End: c.WorkEnd}
		state.Schedules[c.Name] = domain.DaySchedules{}
	}

	var bookings []bookingRow
	if err := r.db.Order("start_time").Find(&bookings).Error; err != nil {
		return nil, false, fmt.Errorf("load bookings: %w", err)
	}
	for _, row := range bookings {
		days, ok := state.Schedules[row.Crew]
		if !ok {
			days = domain.DaySchedules{}
			state.Schedules[row.Crew] = days
		}
		days[row.Day] = append(days[row.Day], toDomainBooking(row))
	}

	return state, true, nil
}

func (r *SQLStateRepository) Save(state *domain.State) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"bookings", "crews", "slot_types", "counters"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for i, t := range state.SlotTypes {
			row := slotTypeRow{Name: t.Name, Minutes: t.Minutes, Weight: t.Weight, Position: i}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("save slot type %s: %w", t.Name, err)
			}
		}

		for i, name := range state.Crews {
			wh := state.WorkingHours[name]
			row := crewRow{Name: name, WorkStart: wh.Start, WorkEnd: wh.End, Position: i}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("save crew %s: %w", name, err)
			}
		}

		for _, days := range state.Schedules {
			for _, bookings := range days {
				for _, b := range bookings {
					row := toBookingRow(b)
					if err := tx.Create(&row).Error; err != nil {
						var pgErr *pgconn.PgError
						if errors.As(err, &pgErr) && pgErr.Code == "23505" {
							return fmt.Errorf("duplicate booking %s/%s at %s: %w", b.Crew, b.Day, b.Start, err)
						}
						return fmt.Errorf("save booking %s: %w", b.ID, err)
					}
				}
			}
		}

		counters := []counterRow{
			{Name: counterClients, Value: state.ClientCounter},
			{Name: counterNotFound, Value: state.NotFoundCounter},
		}
		if err := tx.Create(&counters).Error; err != nil {
			return fmt.Errorf("save counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

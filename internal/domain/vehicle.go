package domain

import (
	"errors"
	"fmt"
)

// Default vehicle parameters.
const (
	DefaultMaxRange          = 320.0 // km
	DefaultInitialCharge     = DefaultMaxRange
	DefaultSpeed             = 105.0 // km/h
	DefaultAverageChargeRate = 134.0 // km/h
)

// Vehicle describes the range-limited car a route is planned for.
//
// MaxRange is the distance the vehicle covers on a full charge and
// InitialCharge the range available when leaving the start station.
// AverageChargeRate is used only by the heuristic to estimate the charging
// time still ahead of an unfinished route.
type Vehicle struct {
	MaxRange          float64
	InitialCharge     float64
	Speed             float64
	AverageChargeRate float64
}

func DefaultVehicle() Vehicle {
	return Vehicle{
		MaxRange:          DefaultMaxRange,
		InitialCharge:     DefaultInitialCharge,
		Speed:             DefaultSpeed,
		AverageChargeRate: DefaultAverageChargeRate,
	}
}

// Validate checks that the parameters describe a drivable vehicle.
func (v Vehicle) Validate() error {
	if v.MaxRange <= 0 {
		return fmt.Errorf("vehicle: max range must be positive, got %v", v.MaxRange)
	}
	if v.InitialCharge < 0 || v.InitialCharge > v.MaxRange {
		return fmt.Errorf("vehicle: initial charge %v must be within [0, %v]", v.InitialCharge, v.MaxRange)
	}
	if v.Speed <= 0 {
		return errors.New("vehicle: speed must be positive")
	}
	if v.AverageChargeRate <= 0 {
		return errors.New("vehicle: average charge rate must be positive")
	}
	return nil
}

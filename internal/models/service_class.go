package models

import (
	"errors"
	"strings"
)

// ServiceClass is the vehicle category selected for a delivery.
type ServiceClass string

const (
	ClassMotorcycle ServiceClass = "MOTORCYCLE"
	ClassCar        ServiceClass = "CAR"
	ClassVan        ServiceClass = "VAN"
	ClassTruck      ServiceClass = "TRUCK"
)

var ErrInvalidServiceClass = errors.New("invalid service class")

// ParseServiceClass normalizes (uppercases+trims) and validates a service
// class string. "SEDAN" is accepted as an alias for CAR; the provider's
// vocabulary never leaks past this boundary.
func ParseServiceClass(in string) (ServiceClass, error) {
	sc := ServiceClass(strings.ToUpper(strings.TrimSpace(in)))
	if sc == "SEDAN" {
		sc = ClassCar
	}
	if sc.Valid() {
		return sc, nil
	}
	return "", ErrInvalidServiceClass
}

// Valid reports whether the class is one of the allowed constants.
func (sc ServiceClass) Valid() bool {
	switch sc {
	case ClassMotorcycle, ClassCar, ClassVan, ClassTruck:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ServiceClass.
func (sc ServiceClass) String() string {
	return string(sc)
}

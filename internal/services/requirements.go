package services

import (
	"bytes"
	"encoding/json"
	"math"

	"schedulepro/internal/models"
)

const (
	msgRequirementsObject    = "Requirements must be an object"
	msgPeopleArray           = "People requirements must be an array"
	msgPeopleQuantity        = "People requirement quantity must be at least 1"
	msgPeopleRole            = "People requirement role must be a string"
	msgPeopleSkills          = "People requirement skills must be an array"
	msgPeopleCertifications  = "People requirement certifications must be an array"
	msgVehiclesArray         = "Vehicle requirements must be an array"
	msgVehicleQuantity       = "Vehicle requirement quantity must be at least 1"
	msgVehicleType           = "Vehicle requirement type must be a string"
	msgVehicleMinCapacity    = "Vehicle min_capacity must be a number"
	msgEquipmentArray        = "Equipment requirements must be an array"
	msgEquipmentQuantity     = "Equipment requirement quantity must be at least 1"
	msgEquipmentType         = "Equipment requirement type must be a string"
	msgEquipmentMinCondition = "Equipment min_condition must be excellent, good, fair, or poor"
)

// Quantities are stored as 32-bit integers.
const (
	maxQuantity             = math.MaxInt32
	msgPeopleQuantityMax    = "People requirement quantity must be at most 2147483647"
	msgVehicleQuantityMax   = "Vehicle requirement quantity must be at most 2147483647"
	msgEquipmentQuantityMax = "Equipment requirement quantity must be at most 2147483647"
)

// IsNullJSON reports whether raw is absent or the JSON literal null.
func IsNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ParseRequirements checks the shape of a requirements document and returns
// its typed form. Rules are applied in order and the first failure is
// returned as a *ValidationError. An absent or null document is valid and empty.
func ParseRequirements(raw json.RawMessage) (models.Requirements, error) {
	var req models.Requirements
	if IsNullJSON(raw) {
		return req, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return req, newValidationError(msgRequirementsObject)
	}
	return parseRequirementsValue(doc)
}

// ValidateRequirements applies ParseRequirements and discards the result.
func ValidateRequirements(raw json.RawMessage) error {
	_, err := ParseRequirements(raw)
	return err
}

func parseRequirementsValue(doc any) (models.Requirements, error) {
	var req models.Requirements
	if doc == nil {
		return req, nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return req, newValidationError(msgRequirementsObject)
	}

	people, err := entries(obj, "people", msgPeopleArray)
	if err != nil {
		return req, err
	}
	for _, entry := range people {
		p, err := parsePersonRequirement(entry)
		if err != nil {
			return req, err
		}
		req.People = append(req.People, p)
	}

	vehicles, err := entries(obj, "vehicles", msgVehiclesArray)
	if err != nil {
		return req, err
	}
	for _, entry := range vehicles {
		v, err := parseVehicleRequirement(entry)
		if err != nil {
			return req, err
		}
		req.Vehicles = append(req.Vehicles, v)
	}

	equipment, err := entries(obj, "equipment", msgEquipmentArray)
	if err != nil {
		return req, err
	}
	for _, entry := range equipment {
		e, err := parseEquipmentRequirement(entry)
		if err != nil {
			return req, err
		}
		req.Equipment = append(req.Equipment, e)
	}

	return req, nil
}

// entries returns obj[key] as an array. Missing and null keys yield no entries.
func entries(obj map[string]any, key, msg string) ([]any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, newValidationError(msg)
	}
	return arr, nil
}

func parsePersonRequirement(entry any) (models.PersonRequirement, error) {
	var p models.PersonRequirement
	obj, ok := entry.(map[string]any)
	if !ok {
		return p, newValidationError(msgPeopleQuantity)
	}
	qty, err := quantity(obj, msgPeopleQuantity, msgPeopleQuantityMax)
	if err != nil {
		return p, err
	}
	p.Quantity = qty

	if p.Role, err = optionalString(obj, "role", msgPeopleRole); err != nil {
		return p, err
	}
	if p.Skills, err = optionalStrings(obj, "skills", msgPeopleSkills); err != nil {
		return p, err
	}
	if p.Certifications, err = optionalStrings(obj, "certifications", msgPeopleCertifications); err != nil {
		return p, err
	}
	return p, nil
}

func parseVehicleRequirement(entry any) (models.VehicleRequirement, error) {
	var v models.VehicleRequirement
	obj, ok := entry.(map[string]any)
	if !ok {
		return v, newValidationError(msgVehicleQuantity)
	}
	qty, err := quantity(obj, msgVehicleQuantity, msgVehicleQuantityMax)
	if err != nil {
		return v, err
	}
	v.Quantity = qty

	if raw, present := obj["min_capacity"]; present && raw != nil {
		n, ok := number(raw)
		if !ok {
			return v, newValidationError(msgVehicleMinCapacity)
		}
		v.MinCapacity = &n
	}

	if v.Type, err = optionalString(obj, "type", msgVehicleType); err != nil {
		return v, err
	}
	return v, nil
}

func parseEquipmentRequirement(entry any) (models.EquipmentRequirement, error) {
	var e models.EquipmentRequirement
	obj, ok := entry.(map[string]any)
	if !ok {
		return e, newValidationError(msgEquipmentQuantity)
	}
	qty, err := quantity(obj, msgEquipmentQuantity, msgEquipmentQuantityMax)
	if err != nil {
		return e, err
	}
	e.Quantity = qty

	if raw, present := obj["min_condition"]; present && raw != nil {
		cond, ok := raw.(string)
		if !ok || !models.IsValidCondition(cond) {
			return e, newValidationError(msgEquipmentMinCondition)
		}
		e.MinCondition = &cond
	}

	if e.Type, err = optionalString(obj, "type", msgEquipmentType); err != nil {
		return e, err
	}
	return e, nil
}

// quantity reads a whole number in [1, maxQuantity] from obj["quantity"].
func quantity(obj map[string]any, msgMin, msgMax string) (int, error) {
	n, ok := number(obj["quantity"])
	if !ok || n < 1 || n != math.Trunc(n) {
		return 0, newValidationError(msgMin)
	}
	if n > maxQuantity {
		return 0, newValidationError(msgMax)
	}
	return int(n), nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	}
	return 0, false
}

func optionalString(obj map[string]any, key, msg string) (*string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, newValidationError(msg)
	}
	return &s, nil
}

func optionalStrings(obj map[string]any, key, msg string) ([]string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, newValidationError(msg)
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, newValidationError(msg)
		}
		out = append(out, s)
	}
	return out, nil
}

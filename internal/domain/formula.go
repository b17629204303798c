package domain

import "fmt"

// FormulaResult is the outcome of a single-formula prediction. Inputs echoes
// the decoded input record.
type FormulaResult struct {
	Prediction any `json:"prediction"`
	Inputs     any `json:"inputs"`
}

// Evaluate decodes fields for the given module and runs its formula.
// Decoding failures are returned as *InputError.
func Evaluate(module Module, fields Fields) (FormulaResult, error) {
	switch module {
	case ModuleAccident:
		in, err := AccidentInputFrom(fields)
		if err != nil {
			return FormulaResult{}, err
		}
		return FormulaResult{Prediction: PredictAccidentRisk(in), Inputs: in}, nil

	case ModuleAirQuality:
		in, err := AirQualityInputFrom(fields)
		if err != nil {
			return FormulaResult{}, err
		}
		return FormulaResult{Prediction: Round(PredictAirQuality(in), 1), Inputs: in}, nil

	case ModuleActivity:
		in, err := ActivityInputFrom(fields)
		if err != nil {
			return FormulaResult{}, err
		}
		return FormulaResult{Prediction: PredictActivity(in), Inputs: in}, nil

	case ModuleParking:
		in, err := ParkingInputFrom(fields)
		if err != nil {
			return FormulaResult{}, err
		}
		status, err := PredictParking(in)
		if err != nil {
			return FormulaResult{}, &InputError{Field: "parking_capacity", Err: err}
		}
		return FormulaResult{Prediction: status, Inputs: in}, nil

	default:
		return FormulaResult{}, fmt.Errorf("%w: %v", ErrUnknownModule, module)
	}
}

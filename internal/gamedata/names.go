package gamedata

import "errors"

// NamesFile represents the structure of names.json.
type NamesFile struct {
	Callsigns []string `json:"callsigns"`
}

// LoadCallsigns loads the agent name pool from the embedded names.json file.
func LoadCallsigns() ([]string, error) {
	file, err := Load[NamesFile]("names.json")
	if err != nil {
		return nil, err
	}
	if len(file.Callsigns) == 0 {
		return nil, errors.New("no callsigns loaded from names.json")
	}
	return file.Callsigns, nil
}

// MustLoadCallsigns loads the name pool, panicking on error.
func MustLoadCallsigns() []string {
	names, err := LoadCallsigns()
	if err != nil {
		panic(err)
	}
	return names
}

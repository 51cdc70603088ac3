package cleaner

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Correction rewrites an ill formed street suffix. From is compared case and punctuation sensitive.
type Correction struct {
	From string `mapstructure:"from" yaml:"from" validate:"required"`
	To   string `mapstructure:"to" yaml:"to"`
}

// CorrectionTable is ordered: when two keys of the same length both match, the earlier one wins.
type CorrectionTable []Correction

func (t CorrectionTable) Lookup(from string) (string, bool) {
	for _, c := range t {
		if c.From == from {
			return c.To, true
		}
	}
	return "", false
}

type Region struct {
	Name      string   `mapstructure:"name" validate:"required"`
	CityNames []string `mapstructure:"city_names" validate:"required,min=1"`
}

// FlagKey is the document key set on records whose city is outside the region.
func (r Region) FlagKey() string {
	return "not_in_" + r.Name
}

func (r Region) Contains(city string) bool {
	for _, name := range r.CityNames {
		if name == city {
			return true
		}
	}
	return false
}

type Config struct {
	Corrections        CorrectionTable `mapstructure:"corrections" validate:"dive"`
	ExpectedSuffixes   []string        `mapstructure:"expected_suffixes" validate:"required,min=1"`
	Region             Region          `mapstructure:"region"`
	PhoneKey           string          `mapstructure:"phone_key" validate:"required"`
	EnglishNameKey     string          `mapstructure:"english_name_key" validate:"required"`
	NameKey            string          `mapstructure:"name_key" validate:"required"`
	AddressPrefix      string          `mapstructure:"address_prefix" validate:"required"`
	Separator          string          `mapstructure:"separator" validate:"required,len=1"`
	CreationAttributes []string        `mapstructure:"creation_attributes" validate:"required,min=1"`
	BookkeepingKeys    []string        `mapstructure:"bookkeeping_keys"`
	PhoneDigits        int             `mapstructure:"phone_digits" validate:"min=1"`
	PostcodeDigits     int             `mapstructure:"postcode_digits" validate:"min=1"`
}

// DefaultConfig is the Shanghai extract configuration.
func DefaultConfig() Config {
	return Config{
		Corrections: CorrectionTable{
			{From: "St.", To: "Street"},
			{From: "St", To: "Street"},
			{From: "Ave", To: "Avenue"},
			{From: "Rd.", To: "Road"},
			{From: "Rd", To: "Road"},
			{From: "Raod", To: "Road"},
			{From: "road", To: "Road"},
			{From: "rd", To: "Road"},
			{From: "Lu", To: "Road"},
			{From: "lu", To: "Road"},
			{From: "street", To: "Street"},
			{From: "avenue", To: "Avenue"},
		},
		ExpectedSuffixes: []string{"Street", "Avenue", "Boulevard", "Drive", "Court", "Place", "Square",
			"Lane", "Road", "Trail", "Parkway", "Commons", "路"},
		Region: Region{
			Name:      "Shanghai",
			CityNames: []string{"Shanghai", "shanghai", "上海", "上海市"},
		},
		PhoneKey:           "contact:phone",
		EnglishNameKey:     "name:en",
		NameKey:            "name",
		AddressPrefix:      "addr:",
		Separator:          ":",
		CreationAttributes: []string{"version", "changeset", "timestamp", "user", "uid"},
		BookkeepingKeys:    []string{"pos", "_id", "type", "id", "created", "created_by"},
		PhoneDigits:        11,
		PostcodeDigits:     6,
	}
}

var ErrInvalidConfig = errors.New("invalid cleaner config")

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

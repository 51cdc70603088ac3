package cleaner

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var problemChars = regexp.MustCompile(`[=\+/&<>;'"\?%#$@\,\. \t\r\n]`)

type Action int

const (
	ActionRejected Action = iota
	ActionSuppressed
	ActionFlat
	ActionAddress
	ActionCreated
	ActionPosition
)

func (a Action) String() string {
	switch a {
	case ActionRejected:
		return "rejected"
	case ActionSuppressed:
		return "suppressed"
	case ActionFlat:
		return "flat"
	case ActionAddress:
		return "address"
	case ActionCreated:
		return "created"
	case ActionPosition:
		return "position"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Decision says where a key/value pair goes in the shaped record. Key is the destination key
// (flat field name, address or created component), Value the possibly rewritten value.
type Decision struct {
	Action      Action `json:"action"`
	Rule        string `json:"rule"`
	Key         string `json:"key,omitempty"`
	Value       string `json:"value,omitempty"`
	OutOfRegion bool   `json:"out_of_region,omitempty"`
}

type rule struct {
	name  string
	match func(key, value string) bool
	apply func(key, value string) Decision
}

// FieldClassifier evaluates an ordered rule list for every tag, the first matching rule decides.
type FieldClassifier struct {
	cfg        Config
	rules      []rule
	normalizer *SuffixNormalizer
	postcodeRe *regexp.Regexp
	creation   map[string]struct{}
}

func NewFieldClassifier(cfg Config, normalizer *SuffixNormalizer) *FieldClassifier {
	fc := &FieldClassifier{
		cfg:        cfg,
		normalizer: normalizer,
		postcodeRe: regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, cfg.PostcodeDigits)),
		creation:   make(map[string]struct{}, len(cfg.CreationAttributes)),
	}
	for _, attr := range cfg.CreationAttributes {
		fc.creation[attr] = struct{}{}
	}

	fc.rules = []rule{
		{
			name:  "problem_chars",
			match: func(key, _ string) bool { return hasProblemChars(key) },
			apply: func(string, string) Decision { return Decision{Action: ActionRejected} },
		},
		{
			name:  "phone",
			match: func(key, _ string) bool { return key == cfg.PhoneKey },
			apply: func(key, value string) Decision {
				return Decision{Action: ActionFlat, Key: key, Value: NormalizePhone(value, cfg.PhoneDigits)}
			},
		},
		{
			name:  "english_name",
			match: func(key, _ string) bool { return key == cfg.EnglishNameKey },
			apply: func(_, value string) Decision {
				return Decision{Action: ActionFlat, Key: cfg.NameKey, Value: value}
			},
		},
		{
			name: "address_qualifier",
			match: func(key, _ string) bool {
				component, ok := fc.addressComponent(key)
				return ok && strings.Contains(component, cfg.Separator)
			},
			apply: func(string, string) Decision { return Decision{Action: ActionSuppressed} },
		},
		{
			name: "address_postcode",
			match: func(key, value string) bool {
				component, ok := fc.addressComponent(key)
				return ok && component == "postcode" && !fc.IsValidPostcode(value)
			},
			apply: func(string, string) Decision { return Decision{Action: ActionSuppressed} },
		},
		{
			name: "address_city",
			match: func(key, value string) bool {
				component, ok := fc.addressComponent(key)
				return ok && component == "city" && !cfg.Region.Contains(value)
			},
			apply: func(string, string) Decision {
				return Decision{Action: ActionSuppressed, OutOfRegion: true}
			},
		},
		{
			name: "address_street",
			match: func(key, value string) bool {
				component, ok := fc.addressComponent(key)
				if !ok || component != "street" {
					return false
				}
				_, found := normalizer.Matcher().Extract(value)
				return found
			},
			apply: func(key, value string) Decision {
				component, _ := fc.addressComponent(key)
				return Decision{Action: ActionAddress, Key: component, Value: normalizer.Normalize(value)}
			},
		},
		{
			name:  "address",
			match: func(key, _ string) bool { _, ok := fc.addressComponent(key); return ok },
			apply: func(key, value string) Decision {
				component, _ := fc.addressComponent(key)
				return Decision{Action: ActionAddress, Key: component, Value: value}
			},
		},
		{
			name:  "flat",
			match: func(string, string) bool { return true },
			apply: func(key, value string) Decision {
				return Decision{Action: ActionFlat, Key: key, Value: value}
			},
		},
	}
	return fc
}

// hasProblemChars reports punctuation from problemChars or any unicode whitespace, eg. U+3000 in
// keys typed with a CJK input method.
func hasProblemChars(key string) bool {
	return problemChars.MatchString(key) || strings.IndexFunc(key, unicode.IsSpace) >= 0
}

func (fc *FieldClassifier) addressComponent(key string) (string, bool) {
	return strings.CutPrefix(key, fc.cfg.AddressPrefix)
}

// Classify decides the destination of a child tag.
func (fc *FieldClassifier) Classify(key, value string) Decision {
	for _, r := range fc.rules {
		if r.match(key, value) {
			d := r.apply(key, value)
			d.Rule = r.name
			return d
		}
	}
	// unreachable, the last rule always matches
	return Decision{Action: ActionFlat, Rule: "flat", Key: key, Value: value}
}

// ClassifyAttribute decides the destination of an element attribute.
func (fc *FieldClassifier) ClassifyAttribute(name, value string) Decision {
	if _, ok := fc.creation[name]; ok {
		return Decision{Action: ActionCreated, Rule: "created", Key: name, Value: value}
	}
	if name == "lat" || name == "lon" {
		return Decision{Action: ActionPosition, Rule: "position", Key: name, Value: value}
	}
	return Decision{Action: ActionFlat, Rule: "flat", Key: name, Value: value}
}

func (fc *FieldClassifier) IsValidPostcode(postcode string) bool {
	return fc.postcodeRe.MatchString(postcode)
}

func (fc *FieldClassifier) InRegion(city string) bool {
	return fc.cfg.Region.Contains(city)
}

func (fc *FieldClassifier) Normalizer() *SuffixNormalizer {
	return fc.normalizer
}

// NormalizePhone keeps the last n digits of phone. shorter numbers keep all their digits.
func NormalizePhone(phone string, n int) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return string(digits)
}

package mada

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"
)

const (
	GigaIwakiPrefix = "GBKB-"
	AdalmPrefix     = "MADALM_"
	// MaxVoltageThreshold is the exclusive upper bound of the 14 bit threshold DAC.
	MaxVoltageThreshold = 1 << 14
	maxConnectionPos    = 2
)

var (
	gigaIwakiIDs = []string{"00", "01", "03", "10", "11", "13"}
	adalmIDs     = []string{"0", "1", "2"}
)

type Polarity string

const (
	Anode   Polarity = "anode"
	Cathode Polarity = "cathode"
)

type Connection struct {
	Polarity Polarity
	Position int
}

// ParseConnection parses connections written as "a1-0" (anode, position 0) or
// "c1-2" (cathode, position 2).
func ParseConnection(s string) (Connection, error) {
	var conn Connection
	if len(s) < 2 {
		return conn, fmt.Errorf("connection %q too short", s)
	}
	switch s[0] {
	case 'a':
		conn.Polarity = Anode
	case 'c':
		conn.Polarity = Cathode
	default:
		return conn, fmt.Errorf("connection %q: unknown polarity %q", s, s[0])
	}
	position, err := strconv.Atoi(s[len(s)-1:])
	if err != nil || position < 0 || position > maxConnectionPos {
		return conn, fmt.Errorf("connection %q: position must be in [0, %d]", s, maxConnectionPos)
	}
	conn.Position = position
	return conn, nil
}

type GigaIwaki struct {
	ID                  string
	Active              bool
	Connection          Connection
	Pitch               int
	IPAddress           string
	DACFile             string
	VoltageThresholdDAC int
}

func (g GigaIwaki) Name() string {
	return GigaIwakiPrefix + g.ID
}

type Adalm struct {
	ID           string
	Active       bool
	URI          string
	SerialNumber string
	ClockD       float64
}

func (a Adalm) Name() string {
	return AdalmPrefix + a.ID
}

// MadaConfig is the board topology of a run. Boards are sorted by id.
type MadaConfig struct {
	GigaIwaki []GigaIwaki
	Adalm     []Adalm
}

func (c MadaConfig) ActiveBoards() []GigaIwaki {
	var active []GigaIwaki
	for _, board := range c.GigaIwaki {
		if board.Active {
			active = append(active, board)
		}
	}
	return active
}

// AvailableBoards returns the names of the active GigaIwaki boards.
func (c MadaConfig) AvailableBoards() []string {
	var names []string
	for _, board := range c.ActiveBoards() {
		names = append(names, board.Name())
	}
	return names
}

func (c MadaConfig) Board(name string) (GigaIwaki, bool) {
	for _, board := range c.GigaIwaki {
		if board.Name() == name {
			return board, true
		}
	}
	return GigaIwaki{}, false
}

// flexInt accepts both 800 and "800".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*f = flexInt(v)
	return nil
}

type rawGigaIwaki struct {
	Active     int     `json:"active"`
	Connection string  `json:"connection"`
	Pitch      flexInt `json:"pitch"`
	IP         string  `json:"IP"`
	Vth        int     `json:"Vth"`
	DACFile    string  `json:"DACfile"`
}

type rawAdalm struct {
	Active int         `json:"active"`
	URI    string      `json:"URI"`
	SN     string      `json:"S/N"`
	ClockD json.Number `json:"Clock_d"`
}

type rawMadaConfig struct {
	GigaIwaki map[string]rawGigaIwaki `json:"gigaIwaki"`
	Adalm     map[string]rawAdalm     `json:"ADALM"`
}

func LoadMadaConfig(filename string) (MadaConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return MadaConfig{}, err
	}
	return ParseMadaConfig(data)
}

// ParseMadaConfig validates a MADA_config document (JSON or YAML).
func ParseMadaConfig(data []byte) (MadaConfig, error) {
	var raw rawMadaConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return MadaConfig{}, err
	}

	var config MadaConfig
	for name, attr := range raw.GigaIwaki {
		board, err := parseGigaIwaki(name, attr)
		if err != nil {
			return MadaConfig{}, &ErrInvalidTopology{Board: name, Err: err}
		}
		config.GigaIwaki = append(config.GigaIwaki, board)
	}
	for name, attr := range raw.Adalm {
		adalm, err := parseAdalm(name, attr)
		if err != nil {
			return MadaConfig{}, &ErrInvalidTopology{Board: name, Err: err}
		}
		config.Adalm = append(config.Adalm, adalm)
	}

	slices.SortFunc(config.GigaIwaki, func(a, b GigaIwaki) int {
		return strings.Compare(a.ID, b.ID)
	})
	slices.SortFunc(config.Adalm, func(a, b Adalm) int {
		return strings.Compare(a.ID, b.ID)
	})
	return config, nil
}

func parseGigaIwaki(name string, attr rawGigaIwaki) (GigaIwaki, error) {
	id, ok := strings.CutPrefix(name, GigaIwakiPrefix)
	if !ok || !slices.Contains(gigaIwakiIDs, id) {
		return GigaIwaki{}, fmt.Errorf("unknown board id, expected %s%v", GigaIwakiPrefix, gigaIwakiIDs)
	}
	conn, err := ParseConnection(attr.Connection)
	if err != nil {
		return GigaIwaki{}, err
	}
	if attr.Vth < 0 || attr.Vth >= MaxVoltageThreshold {
		return GigaIwaki{}, fmt.Errorf("Vth %d out of range [0, %d)", attr.Vth, MaxVoltageThreshold)
	}
	return GigaIwaki{
		ID:                  id,
		Active:              attr.Active != 0,
		Connection:          conn,
		Pitch:               int(attr.Pitch),
		IPAddress:           attr.IP,
		DACFile:             attr.DACFile,
		VoltageThresholdDAC: attr.Vth,
	}, nil
}

func parseAdalm(name string, attr rawAdalm) (Adalm, error) {
	id, ok := strings.CutPrefix(name, AdalmPrefix)
	if !ok || !slices.Contains(adalmIDs, id) {
		return Adalm{}, fmt.Errorf("unknown ADALM id, expected %s%v", AdalmPrefix, adalmIDs)
	}
	var clockD float64
	if attr.ClockD != "" {
		v, err := attr.ClockD.Float64()
		if err != nil {
			return Adalm{}, fmt.Errorf("invalid Clock_d %q", attr.ClockD)
		}
		clockD = v
	}
	return Adalm{
		ID:           id,
		Active:       attr.Active != 0,
		URI:          attr.URI,
		SerialNumber: attr.SN,
		ClockD:       clockD,
	}, nil
}

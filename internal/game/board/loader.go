package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlBoardFile is the top-level YAML structure for board files.
type yamlBoardFile struct {
	Board yamlBoard `yaml:"board"`
}

// yamlBoard is the YAML representation of a board. Rows are strings of one
// rune per tile: '.' open, '#' wall, 'D' closed door, 'd' open door,
// '~' water, 'T' teleport.
type yamlBoard struct {
	ID      string       `yaml:"id"`
	Size    int          `yaml:"size"`
	Rows    []string     `yaml:"rows"`
	Objects []yamlObject `yaml:"objects"`
}

// yamlObject is the YAML representation of a placed object.
type yamlObject struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

// LoadFromFile reads and validates a single board YAML file.
//
// Precondition: path must point to a valid YAML board file.
// Postcondition: Returns a validated Board or a non-nil error.
func LoadFromFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading board file %s: %w", path, err)
	}
	b, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("board file %s: %w", path, err)
	}
	return b, nil
}

// LoadFromBytes parses and validates a board from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the board schema.
// Postcondition: Returns a validated Board or a non-nil error.
func LoadFromBytes(data []byte) (*Board, error) {
	var file yamlBoardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing board YAML: %w", err)
	}

	b, err := convertYAMLBoard(file.Board)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validating board: %w", err)
	}
	return b, nil
}

// LoadFromDir loads every .yaml/.yml board in dir, keyed by board id.
//
// Postcondition: Returns a non-empty map or a non-nil error.
func LoadFromDir(dir string) (map[string]*Board, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading board directory %s: %w", dir, err)
	}

	boards := make(map[string]*Board)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		b, err := LoadFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := boards[b.ID]; dup {
			return nil, fmt.Errorf("duplicate board id %q in %s", b.ID, entry.Name())
		}
		boards[b.ID] = b
	}

	if len(boards) == 0 {
		return nil, fmt.Errorf("no board files found in %s", dir)
	}
	return boards, nil
}

func convertYAMLBoard(y yamlBoard) (*Board, error) {
	tiles := make([][]TileKind, len(y.Rows))
	for row, line := range y.Rows {
		runes := []rune(strings.TrimSpace(line))
		tiles[row] = make([]TileKind, len(runes))
		for col, r := range runes {
			kind, err := tileKindForRune(r)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			tiles[row][col] = kind
		}
	}

	objects := make([]Object, 0, len(y.Objects))
	for _, o := range y.Objects {
		kind, err := objectKindForName(o.Kind)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", o.ID, err)
		}
		objects = append(objects, Object{
			ID:   o.ID,
			Kind: kind,
			Pos:  Position{X: o.X, Y: o.Y},
		})
	}

	return &Board{
		ID:      y.ID,
		Size:    y.Size,
		Tiles:   tiles,
		Objects: objects,
	}, nil
}

func tileKindForRune(r rune) (TileKind, error) {
	switch r {
	case '.':
		return TileOpen, nil
	case '#':
		return TileWall, nil
	case 'D':
		return TileDoorClosed, nil
	case 'd':
		return TileDoorOpen, nil
	case '~':
		return TileWater, nil
	case 'T':
		return TileTeleport, nil
	default:
		return 0, fmt.Errorf("unknown tile rune %q", string(r))
	}
}

func objectKindForName(name string) (ObjectKind, error) {
	switch name {
	case "start-point":
		return ObjectStartPoint, nil
	case "flag":
		return ObjectFlag, nil
	case "heal-sanctuary":
		return ObjectHealSanctuary, nil
	case "fight-sanctuary":
		return ObjectFightSanctuary, nil
	case "boat":
		return ObjectBoat, nil
	default:
		return 0, fmt.Errorf("unknown object kind %q", name)
	}
}

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hyodin/dollkongbot/internal/storage"
)

// State is a position in the FAQ hierarchy.
type State int

const (
	// AtRoot lists lvl1 keywords.
	AtRoot State = iota
	// AtLvl1 has a lvl1 selected and lists its lvl2 values.
	AtLvl1
	// AtLvl2 has lvl1 and lvl2 selected and lists lvl3 values.
	AtLvl2
	// AtLvl3 has a full path selected and carries the answer. It is terminal.
	AtLvl3
)

func (s State) String() string {
	switch s {
	case AtRoot:
		return "root"
	case AtLvl1:
		return "lvl1"
	case AtLvl2:
		return "lvl2"
	case AtLvl3:
		return "lvl3"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AnswerSeparator joins the detail texts of a terminal listing.
const AnswerSeparator = "\n\n"

var (
	// ErrInvalidSelection is returned when a value is not among the current options.
	ErrInvalidSelection = errors.New("selection is not one of the listed options")
	// ErrTerminal is returned when selecting past the last level.
	ErrTerminal = errors.New("navigation is at a terminal node")
)

// Listing is what the caller shows at one navigation state.
type Listing struct {
	State State
	// Path holds the selected labels, one per level below the root.
	Path []string
	// Options are the selectable children. Nil at AtLvl3.
	Options []string
	// Details are the lvl4 texts of every chunk on the path, in chunk order. Only set at AtLvl3.
	Details []string
	// Chunks are the chunks on the path. Only set at AtLvl3.
	Chunks []storage.ChunkRecord
}

// Answer joins Details into the final answer text.
func (l Listing) Answer() string {
	return strings.Join(l.Details, AnswerSeparator)
}

// Empty reports that there is nothing to select or show. Callers should
// offer free-text search instead.
func (l Listing) Empty() bool {
	if l.State == AtLvl3 {
		return len(l.Details) == 0
	}
	return len(l.Options) == 0
}

// Navigator walks the FAQ hierarchy for one session. Listings are cached by
// path so going back never refetches. It is safe for concurrent use.
type Navigator struct {
	chunks     storage.ChunkStore
	visibility Visibility

	mu    sync.Mutex
	path  []string
	cache map[string]Listing
}

// NewNavigator creates a navigator positioned at the root.
func NewNavigator(chunks storage.ChunkStore, visibility Visibility) *Navigator {
	return &Navigator{
		chunks:     chunks,
		visibility: visibility,
		cache:      make(map[string]Listing),
	}
}

// Current returns the listing for the current position.
func (n *Navigator) Current(ctx context.Context) (Listing, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.listing(ctx, n.path)
}

// Select moves one level down. value must be one of the current options.
func (n *Navigator) Select(ctx context.Context, value string) (Listing, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	current, err := n.listing(ctx, n.path)
	if err != nil {
		return Listing{}, err
	}
	if current.State == AtLvl3 {
		return Listing{}, ErrTerminal
	}
	if !slices.Contains(current.Options, value) {
		return Listing{}, fmt.Errorf("%w: %q", ErrInvalidSelection, value)
	}

	next := append(slices.Clone(n.path), value)
	l, err := n.listing(ctx, next)
	if err != nil {
		return Listing{}, err
	}
	n.path = next
	return l, nil
}

// Back moves one level up. At the root it returns the root listing.
func (n *Navigator) Back(ctx context.Context) (Listing, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.path) > 0 {
		n.path = n.path[:len(n.path)-1]
	}
	return n.listing(ctx, n.path)
}

// Reset returns to the root.
func (n *Navigator) Reset(ctx context.Context) (Listing, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.path = nil
	return n.listing(ctx, n.path)
}

// listing returns the cached listing for path, fetching it on first use.
// Callers must hold n.mu.
func (n *Navigator) listing(ctx context.Context, path []string) (Listing, error) {
	key := strings.Join(path, "\x1f")
	if l, ok := n.cache[key]; ok {
		return l, nil
	}

	l := Listing{State: State(len(path)), Path: slices.Clone(path)}
	switch l.State {
	case AtRoot:
		entries, err := n.chunks.DistinctLvl1(ctx)
		if err != nil {
			return Listing{}, fmt.Errorf("failed to list lvl1 values: %w", err)
		}
		l.Options = n.visibility.Apply(entries)
	case AtLvl1:
		values, err := n.chunks.DistinctLvl2(ctx, path[0])
		if err != nil {
			return Listing{}, fmt.Errorf("failed to list lvl2 values: %w", err)
		}
		l.Options = values
	case AtLvl2:
		values, err := n.chunks.DistinctLvl3(ctx, path[0], path[1])
		if err != nil {
			return Listing{}, fmt.Errorf("failed to list lvl3 values: %w", err)
		}
		l.Options = values
	case AtLvl3:
		chunks, err := n.chunks.ListByPath(ctx, path[0], path[1], path[2])
		if err != nil {
			return Listing{}, fmt.Errorf("failed to list chunks: %w", err)
		}
		l.Chunks = chunks
		l.Details = make([]string, 0, len(chunks))
		for _, c := range chunks {
			l.Details = append(l.Details, c.Lvl4)
		}
	default:
		return Listing{}, ErrTerminal
	}

	if l.Options == nil && l.State != AtLvl3 {
		l.Options = []string{}
	}
	n.cache[key] = l
	return l, nil
}

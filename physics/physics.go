// Package physics names the engines a debris session can run on.
package physics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics/box2d"
	"github.com/plus3/debrisfall/physics/chipmunk"
)

// DefaultBackend is the engine used when none is named.
const DefaultBackend = "box2d"

var backends = map[string]debris.NewWorldFunc{
	"box2d":    box2d.NewWorld,
	"chipmunk": chipmunk.NewWorld,
}

// Backend returns the world constructor registered under name.
func Backend(name string) (debris.NewWorldFunc, error) {
	newWorld, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown physics backend %q (want one of %s)", name, strings.Join(Backends(), ", "))
	}
	return newWorld, nil
}

// Backends lists the registered backend names in order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

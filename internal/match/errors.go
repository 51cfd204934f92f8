package match

import (
	"fmt"

	"github.com/samdwyer/strikeband/internal/entity"
)

func errUnknownStrategy(key string) error {
	return fmt.Errorf("unknown initial strategy %q", key)
}

func errRosterSize(player, bot int) error {
	return fmt.Errorf("both rosters need exactly %d agents, got %d and %d",
		entity.RosterSize, player, bot)
}

package cli

import (
	"fmt"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/demand"
	"github.com/dmitrijs2005/keepers/internal/models"
)

func collectionLine(c models.Collection, active bool) string {
	mark := " "
	if active {
		mark = "*"
	}
	kind := "user"
	if c.IsSystem {
		kind = "system"
	}
	done, total := c.Progress()
	return fmt.Sprintf("%s %-16s %-24s %d/%d (%s)", mark, c.ID, c.Name, done, total, kind)
}

func quantity(it models.Item) string {
	check := ""
	if it.Completed {
		check = " ✓"
	}
	if it.Required == 0 {
		return fmt.Sprintf("%d%s", it.Owned, check)
	}
	return fmt.Sprintf("%d/%d%s", it.Owned, it.Required, check)
}

func itemLine(info catalog.ItemInfo, it models.Item) string {
	return fmt.Sprintf("%-20s %-10s %-18s %s", it.ItemID, info.Rarity, info.Name, quantity(it))
}

func entryLine(e demand.Entry) string {
	return fmt.Sprintf("%-20s %-10s %d/%d", e.Info.Name, e.Info.Rarity, e.Owned(), e.Required())
}

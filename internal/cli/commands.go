package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/keepers/internal/backup"
	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/demand"
	"github.com/dmitrijs2005/keepers/internal/store"
)

var now = time.Now

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func need(args []string, n int, usage string) error {
	if len(args) < n {
		return usageError(usage)
	}
	return nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return n, nil
}

func onOff(args []string, usage string) (bool, error) {
	if len(args) != 1 {
		return false, usageError(usage)
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, usageError(usage)
}

func (a *App) Lists(context.Context) error {
	doc := a.store.Snapshot()
	for _, c := range doc.Collections {
		a.printf("%s\n", collectionLine(c, doc.Settings.Active.Contains(c.ID)))
	}
	return nil
}

func (a *App) Show(_ context.Context, args []string) error {
	if err := need(args, 1, "show <collection>"); err != nil {
		return err
	}
	c, ok := a.store.Collection(args[0])
	if !ok {
		return store.ErrCollectionNotFound
	}
	a.printf("%s\n", collectionLine(c, a.store.IsActive(c.ID)))
	for _, it := range c.Items {
		a.printf("  %s\n", itemLine(catalog.LookupItem(it.ItemID), it))
	}
	return nil
}

func (a *App) Items(_ context.Context, args []string) error {
	view := demand.Build(a.store.Snapshot(), strings.Join(args, " "))
	for _, e := range view.Entries {
		a.printf("%s\n", entryLine(e))
		for _, d := range e.Demands {
			a.printf("    %-20s %s\n", d.CollectionName, quantity(d.Item))
		}
	}
	a.printf("%d of %d items shown\n", len(view.Entries), view.Total)
	return nil
}

func (a *App) Adjust(ctx context.Context, args []string) error {
	const usage = "add <collection> <item> <delta>"
	if err := need(args, 3, usage); err != nil {
		return err
	}
	delta, err := atoi(args[2])
	if err != nil {
		return err
	}
	return a.store.AdjustQuantity(ctx, args[0], args[1], delta)
}

func (a *App) SetQuantity(ctx context.Context, args []string) error {
	if err := need(args, 3, "set <collection> <item> <qty>"); err != nil {
		return err
	}
	qty, err := atoi(args[2])
	if err != nil {
		return err
	}
	return a.store.SetQuantity(ctx, args[0], args[1], qty)
}

func (a *App) Complete(ctx context.Context, args []string) error {
	if err := need(args, 2, "done <collection> <item>"); err != nil {
		return err
	}
	return a.store.CompleteItem(ctx, args[0], args[1])
}

func (a *App) Create(ctx context.Context, args []string) error {
	if err := need(args, 1, "new <name>"); err != nil {
		return err
	}
	name := strings.Join(args, " ")
	id, err := a.store.CreateCollection(ctx, name)
	if errors.Is(err, store.ErrCollectionExists) {
		return fmt.Errorf("a collection named %q already exists", name)
	}
	if err != nil {
		return err
	}
	a.printf("Created %s\n", id)
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if err := need(args, 2, "rename <collection> <name>"); err != nil {
		return err
	}
	return a.store.RenameCollection(ctx, args[0], strings.Join(args[1:], " "))
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := need(args, 1, "delete <collection>"); err != nil {
		return err
	}
	c, ok := a.store.Collection(args[0])
	if !ok {
		return store.ErrCollectionNotFound
	}
	if c.IsSystem {
		return store.ErrSystemCollection
	}
	if !a.confirm(fmt.Sprintf("Delete %q and its %d items?", c.Name, len(c.Items))) {
		a.printf("Cancelled\n")
		return nil
	}
	return a.store.DeleteCollection(ctx, c.ID)
}

func (a *App) AddItem(ctx context.Context, args []string) error {
	if err := need(args, 3, "additem <collection> <item> <required>"); err != nil {
		return err
	}
	n, err := atoi(args[2])
	if err != nil {
		return err
	}
	return a.store.AddItem(ctx, args[0], args[1], n)
}

func (a *App) RemoveItem(ctx context.Context, args []string) error {
	if err := need(args, 2, "rmitem <collection> <item>"); err != nil {
		return err
	}
	return a.store.RemoveItem(ctx, args[0], args[1])
}

func (a *App) Require(ctx context.Context, args []string) error {
	if err := need(args, 3, "require <collection> <item> <required>"); err != nil {
		return err
	}
	n, err := atoi(args[2])
	if err != nil {
		return err
	}
	return a.store.SetRequired(ctx, args[0], args[1], n)
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	if err := need(args, 1, "toggle <collection>"); err != nil {
		return err
	}
	return a.store.ToggleActive(ctx, args[0])
}

func (a *App) ShowCompleted(ctx context.Context, args []string) error {
	on, err := onOff(args, "completed on|off")
	if err != nil {
		return err
	}
	return a.store.SetShowCompleted(ctx, on)
}

func (a *App) Animations(ctx context.Context, args []string) error {
	on, err := onOff(args, "animations on|off")
	if err != nil {
		return err
	}
	return a.store.SetAnimationsEnabled(ctx, on)
}

func (a *App) Export(_ context.Context, args []string) error {
	data, err := a.store.Export()
	if err != nil {
		return err
	}

	path := filepath.Join(a.exportDir, backup.FileName(now()))
	if len(args) > 0 {
		path = args[0]
	}
	if err := backup.WriteFile(path, data); err != nil {
		return err
	}
	a.printf("Exported to %s\n", path)
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	if err := need(args, 1, "import <file>"); err != nil {
		return err
	}
	data, err := backup.ReadFile(args[0])
	if err != nil {
		return err
	}
	if !a.confirm("Replace all collections and settings with this file?") {
		a.printf("Cancelled\n")
		return nil
	}
	if err := a.store.Import(ctx, data); err != nil {
		if errors.Is(err, store.ErrInvalidDocument) {
			return fmt.Errorf("%s is not a keepers export: %w", args[0], err)
		}
		return err
	}
	a.printf("Imported %s\n", args[0])
	return nil
}

func (a *App) Backup(ctx context.Context) error {
	if a.uploader == nil {
		return backup.ErrNotConfigured
	}
	data, err := a.store.Export()
	if err != nil {
		return err
	}
	key, err := a.uploader.Upload(ctx, data)
	if err != nil {
		a.log.Error(ctx, "backup failed", "error", err)
		return err
	}
	a.printf("Backed up to %s\n", key)
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	if !a.confirm("Reset system collections and settings to defaults?") {
		a.printf("Cancelled\n")
		return nil
	}
	return a.store.Reset(ctx)
}

func (a *App) Wipe(ctx context.Context) error {
	if !a.confirm("Delete ALL data, including your own collections?") {
		a.printf("Cancelled\n")
		return nil
	}
	return a.store.Wipe(ctx)
}

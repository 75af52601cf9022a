package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	Lists(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Items(ctx context.Context, args []string) error
	Adjust(ctx context.Context, args []string) error
	SetQuantity(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	AddItem(ctx context.Context, args []string) error
	RemoveItem(ctx context.Context, args []string) error
	Require(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	ShowCompleted(ctx context.Context, args []string) error
	Animations(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Backup(ctx context.Context) error
	Reset(ctx context.Context) error
	Wipe(ctx context.Context) error
}

const helpText = `Commands:
  lists | ls, show <collection>, items | i [query]
  add <collection> <item> <delta>, set <collection> <item> <qty>, done <collection> <item>
  new <name>, rename <collection> <name>, delete <collection>, toggle <collection>
  additem <collection> <item> <n>, rmitem <collection> <item>, require <collection> <item> <n>
  completed on|off, animations on|off
  export [file], import <file>, backup, reset, wipe
  help, exit`

// runREPL reads commands from scanner until EOF, "exit" or "quit". promptFn
// returns the prompt to print before each line; an empty prompt prints
// nothing. Errors from handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if p := promptFn(); p != "" {
			printlnFn(p)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "ls", "lists":
			err = a.Lists(ctx)
		case "show":
			err = a.Show(ctx, args)
		case "i", "items":
			err = a.Items(ctx, args)
		case "add":
			err = a.Adjust(ctx, args)
		case "set":
			err = a.SetQuantity(ctx, args)
		case "done":
			err = a.Complete(ctx, args)
		case "new":
			err = a.Create(ctx, args)
		case "rename":
			err = a.Rename(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "additem":
			err = a.AddItem(ctx, args)
		case "rmitem":
			err = a.RemoveItem(ctx, args)
		case "require":
			err = a.Require(ctx, args)
		case "toggle":
			err = a.Toggle(ctx, args)
		case "completed":
			err = a.ShowCompleted(ctx, args)
		case "animations":
			err = a.Animations(ctx, args)
		case "export":
			err = a.Export(ctx, args)
		case "import":
			err = a.Import(ctx, args)
		case "backup":
			err = a.Backup(ctx)
		case "reset":
			err = a.Reset(ctx)
		case "wipe":
			err = a.Wipe(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

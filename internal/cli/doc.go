// Package cli is the interactive terminal front-end of keepers.
//
// It reads one command per line and calls the store. Commands:
//
//	lists | ls                        list collections with progress
//	show <collection>                 items of one collection
//	items | i [query]                 demand across active collections
//	add <collection> <item> <delta>   change owned quantity by delta
//	set <collection> <item> <qty>     set owned quantity
//	done <collection> <item>          mark item complete
//	new <name>                        create a collection
//	rename <collection> <name>        rename a collection
//	delete <collection>               delete a collection
//	additem <collection> <item> <n>   add an item with target n
//	rmitem <collection> <item>        remove an item
//	require <collection> <item> <n>   change an item's target
//	toggle <collection>               activate or deactivate
//	completed on|off                  show completed items
//	animations on|off                 animations setting
//	export [file]                     write an export file
//	import <file>                     replace all data with an export
//	backup                            upload an export to the backup bucket
//	reset                             restore system collections and settings
//	wipe                              delete all data and start over
//	help, exit | quit
package cli

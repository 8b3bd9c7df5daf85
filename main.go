// Command taskdeck is a task board with filters, sorting and time tracking.
package main

import "github.com/twiced-technology-gmbh/taskdeck/cmd"

func main() {
	cmd.Execute()
}

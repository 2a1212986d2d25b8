package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/etfportfolio/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded user documentation.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the user documentation" }
func (*topicCmd) Usage() string {
	return `etf topic [-l] [<topic>...]

  Prints documentation topics, the overview when none is given, every topic
  with "*".
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "Only list the topic names")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		names, err := docs.List()
		if err != nil {
			return fail("Error listing topics: %v", err)
		}
		fmt.Println(strings.Join(names, "\n"))
		return subcommands.ExitSuccess
	}

	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}
	md, err := docs.Topics(names...)
	if err != nil {
		return fail("Error: %v", err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

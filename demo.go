package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecheney/fedi/activitypub"
	"github.com/davecheney/fedi/internal/topology"
	"github.com/davecheney/fedi/models"
)

type DemoCmd struct {
	Content string `help:"content of the activity carla creates" default:"Hi everyone"`
}

func (d *DemoCmd) Run(ctx *Context) error {
	bg := context.Background()
	dir := activitypub.NewDirectory()
	servers, err := topology.Default().Build(bg, dir, activitypub.WithLogger(ctx.Logger))
	if err != nil {
		return err
	}

	unito, _ := dir.Resolve("masto.unito.it")
	activity, err := unito.CreateActivity(bg, "carla", models.Create, d.Content)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s created %s %s\n", activity.Actor(), activity.Type(), activity.ID())

	for _, s := range servers {
		for _, actor := range s.Actors() {
			fmt.Fprintf(os.Stdout, "%s\n", actor)
			for a := range s.Inbox(actor.FullID()) {
				fmt.Fprintf(os.Stdout, "\t%s %s %s: %q\n", a.Published().Format("15:04:05.000"), a.Type(), a.Actor(), a.Content())
			}
		}
	}
	return nil
}

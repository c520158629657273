package main

//go-build: CGO_ENABLED=0

import (
	"log"

	"github.com/robotalks/pms.go/pkg/env"
	"github.com/robotalks/pms.go/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	conf, err := env.ParseFlags()
	if err != nil {
		log.Fatalln(err)
	}
	e := conf.MustNewEnv()
	runner := framework.NewRunner().HandleSignals()
	if err := runner.Go(framework.NamedRun("driver", e)).Wait(); err != nil {
		log.Fatalln(err)
	}
}

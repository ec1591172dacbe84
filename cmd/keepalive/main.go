package main

import (
	"flag"
	"time"

	"github.com/nm-morais/go-sched/configs"
	"github.com/nm-morais/go-sched/examples/keepalive"
	"github.com/nm-morais/go-sched/pkg/binding"
	"github.com/nm-morais/go-sched/pkg/scheduler"
)

func main() {
	var configFile string
	var keepAliveInterval, idleTimeout time.Duration
	var activityBudget int
	flag.StringVar(&configFile, "conf", "", "path to a YAML config file")
	flag.DurationVar(&keepAliveInterval, "keepalive", 1*time.Second, "keep-alive interval")
	flag.DurationVar(&idleTimeout, "idle", 3*time.Second, "idle shutdown timeout")
	flag.IntVar(&activityBudget, "activity", 3, "keep-alives counted as activity")
	flag.Parse()

	config := configs.DefaultConfig()
	if configFile != "" {
		var err error
		config, err = configs.ReadConfigFromFile(configFile)
		if err != nil {
			panic(err)
		}
	}

	sched := scheduler.New(config)
	manager, err := binding.NewManager(config, sched)
	if err != nil {
		panic(err.Reason())
	}

	sched.Start()
	manager.Start()

	client := keepalive.NewClient(manager, keepAliveInterval, idleTimeout, activityBudget)
	client.Start()

	manager.Wait()
}

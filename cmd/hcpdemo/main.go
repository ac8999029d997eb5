// Package main is the demo CLI command itself.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/hcplanner/hcp"
	"go.viam.com/hcplanner/internal/logging"
	"go.viam.com/hcplanner/spatial"
)

const (
	flagStart          = "start"
	flagGoal           = "goal"
	flagObstacle       = "obstacle"
	flagMaxClasses     = "max-classes"
	flagRoadmap        = "roadmap"
	flagSeed           = "seed"
	flagFreeGoalVel    = "free-goal-vel"
	flagDebug          = "debug"
)

func main() {
	app := &cli.App{
		Name:  "hcpdemo",
		Usage: "run one homotopy-class planning cycle from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagStart,
				Usage:    "start pose as \"x,y,theta\"",
				Value:    "0,0,0",
				Required: false,
			},
			&cli.StringFlag{
				Name:     flagGoal,
				Usage:    "goal pose as \"x,y,theta\"",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  flagObstacle,
				Usage: "circular obstacle as \"x,y,radius\", may be repeated",
			},
			&cli.IntFlag{
				Name:  flagMaxClasses,
				Usage: "cap on the number of homotopy classes explored",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  flagRoadmap,
				Usage: "use the probabilistic roadmap explorer instead of the deterministic keypoint graph",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "random seed for the roadmap explorer",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  flagFreeGoalVel,
				Usage: "leave the goal velocity boundary condition unconstrained",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Action: runPlan,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPlan(c *cli.Context) error {
	start, err := parsePose(c.String(flagStart))
	if err != nil {
		return errors.Wrap(err, "parsing start")
	}
	goal, err := parsePose(c.String(flagGoal))
	if err != nil {
		return errors.Wrap(err, "parsing goal")
	}

	var obstacles []spatial.Obstacle
	for _, spec := range c.StringSlice(flagObstacle) {
		obs, err := parseObstacle(spec)
		if err != nil {
			return errors.Wrap(err, "parsing obstacle")
		}
		obstacles = append(obstacles, obs)
	}

	cfg := hcp.NewDefaultConfig()
	cfg.MaxNumberClasses = c.Int(flagMaxClasses)
	cfg.SimpleExploration = !c.Bool(flagRoadmap)

	logger := logging.NewNopLogger()
	if c.Bool(flagDebug) {
		logger = logging.NewDevelopmentLogger("hcpdemo")
	}

	planner := hcp.NewPlanner(cfg, obstacles, newLinearTEB, logger)
	planner.Initialize()
	planner.SetRandomSource(rand.New(rand.NewSource(c.Int64(flagSeed))))

	if err := planner.Plan(context.Background(), start, goal, spatial.ZeroVelocity2(), c.Bool(flagFreeGoalVel)); err != nil {
		return errors.Wrap(err, "planning")
	}

	fmt.Fprintf(c.App.Writer, "homotopy classes found: %d\n", planner.Pool().Len())
	for i, teb := range planner.Pool().TEBs() {
		fmt.Fprintf(c.App.Writer, "  class %d: %d poses, cost %.3f\n", i, len(teb.Poses()), sumCurrentCost(teb))
	}

	best, ok := planner.Pool().Best()
	if !ok {
		fmt.Fprintln(c.App.Writer, "no feasible class found")
		return nil
	}
	v := best.VelocityCommand()
	fmt.Fprintf(c.App.Writer, "selected velocity command: linear=%.3f angular=%.3f\n", v.Linear, v.Angular)
	return nil
}

func sumCurrentCost(teb hcp.TEB) float64 {
	var total float64
	for _, c := range teb.CurrentCost() {
		total += c
	}
	return total
}

func parsePose(s string) (spatial.PoseSE2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return spatial.PoseSE2{}, errors.Errorf("expected \"x,y,theta\", got %q", s)
	}
	vals, err := parseFloats(parts)
	if err != nil {
		return spatial.PoseSE2{}, err
	}
	return spatial.NewPoseSE2(vals[0], vals[1], vals[2]), nil
}

func parseObstacle(s string) (spatial.Obstacle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, errors.Errorf("expected \"x,y,radius\", got %q", s)
	}
	vals, err := parseFloats(parts)
	if err != nil {
		return nil, err
	}
	return spatial.NewCircleObstacle(vals[0], vals[1], vals[2]), nil
}

func parseFloats(parts []string) ([]float64, error) {
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", p)
		}
		out[i] = v
	}
	return out, nil
}

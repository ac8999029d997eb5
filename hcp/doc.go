// Package hcp implements the homotopy-class planner core: given a start
// pose, a goal pose, a current velocity, and a set of obstacles, it
// discovers topologically distinct candidate trajectories around the
// obstacles, keeps each as a TEB (timed elastic band, an external
// collaborator), and selects the minimum-cost survivor as the active plan.
//
// The nonlinear per-trajectory optimizer, obstacle collision geometry, the
// elastic band representation itself, and the navigation-stack adapters
// are out of scope here and are expressed as the TEB, Obstacle,
// CostmapModel, and Visualizer interfaces.
package hcp

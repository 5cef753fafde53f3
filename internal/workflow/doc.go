// Package workflow loads YAML workflow definitions and runs their steps as
// child processes.
//
// Definitions live as <name>.yml or <name>.yaml files in a single directory
// and are read fresh on every List, Load and Run. Steps run strictly in
// declaration order through an Executor. The first failing step halts the
// run and fires the on_failure hook, unless the step sets
// continue_on_error. When the loop completes, on_success fires, even if
// tolerated steps failed along the way.
//
// Step environments are merged as engine base env, then workflow env, then
// step env, with later layers winning. Command lines and env values may
// reference ${{ env.NAME }} and ${{ secrets.NAME }}.
//
// The if field of a step is accepted and kept on the Definition but is not
// evaluated: guarded steps always run.
package workflow

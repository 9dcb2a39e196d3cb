// Package multiplex joins per-N cycle/basin classifications across a
// configured set of rule parameters: for each page and each N in N_set it
// records the terminal cycle (or HALT) and depth, then derives tunnel nodes
// (pages whose terminal cycle changes across N), the N×N layer connectivity
// matrix, and the basin-flow edge list linking cycle identities between
// layers.
//
// Every output is a pure reduction over the per-(page,N) assignment table:
// Build runs B (rule.Compute) and C (cycles.Find) once per N — independent
// work that Build runs in parallel, one goroutine per N — then joins the
// results in-process.
package multiplex

// Package quadric fits an implicit quadric surface pᵀ·Q·p = 0 to points with
// normals.
//
// The fit runs in two explicit stages. First the approximate nullspace of the
// algebraic system A·q = 0 is found from the smallest eigenvalues of AᵀA
// (SolveNullspace). Then, within that nullspace, the coefficient vector whose
// gradient best matches the sample normals is selected by a reduced least
// squares solve (SelectCoefficients). Evaluate reports the first order
// geometric deviation of every sample from the fitted surface.
//
// Degeneracies met along the way are returned as Diagnostics instead of
// being printed; only numerical breakdown of the final solve is an error.
package quadric

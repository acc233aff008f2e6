// Package relocate moves accepted addon directories into the destination
// tree.
//
// The move strategy is decided per item: a plain rename when source and
// destination share a storage volume, copy-then-delete when they do not. The
// copy path runs a free-space preflight first (directory size plus a
// configured safety margin against the destination volume's free space,
// queried fresh for every item). Dry runs perform the same computation and
// report will_* outcomes without mutating anything. A failed move never
// aborts the batch.
//
// Filesystem probes sit behind the Probe interface so tests can substitute
// synthetic volumes and free-space figures.
package relocate

// Package reconcile joins scanned manifests against the feed index and
// decides whether each manifest's simType needs correcting.
//
// Every manifest resolves to exactly one outcome from the closed vocabulary;
// no failure during one manifest's processing escapes to abort the batch. In
// apply mode a genuine change rewrites the manifest in place; dry runs report
// the intended change and mutate nothing.
package reconcile

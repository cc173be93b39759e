// Package fleet selects the sites a run operates on.
//
// The inventory of accessible sites is filtered conjunctively by team
// membership, organization, name pattern and owner, in that order. The
// result keeps inventory order. CachedInventory keeps the last fetched
// site list on disk so repeated runs can skip the slow inventory call.
package fleet

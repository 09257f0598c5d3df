package validate

// KnownEntities is the closed list of merchant/airline/service names the
// fact verifier checks digest text against (spec.md §9 open question 3:
// treated as configuration, not logic).
var KnownEntities = []string{
	"united", "delta", "american", "southwest", "alaska",
	"target", "amazon", "walmart", "costco",
	"bank of america", "chase", "wells fargo",
	"spotify", "netflix", "apple", "google",
	"uber", "lyft", "doordash", "instacart",
}

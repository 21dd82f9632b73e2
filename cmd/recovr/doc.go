// Command recovr is the CLI for the lost-and-found matching pipeline. It
// manages the item catalog, runs image matching for reported items, performs
// ad-hoc image searches, and drives the search-request lifecycle.
package main

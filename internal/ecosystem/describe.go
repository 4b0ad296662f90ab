package ecosystem

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Describe writes the definition in three aligned sections.
func (d *Definition) Describe(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "-- Market --")
	for _, consumer := range d.Consumers() {
		fmt.Fprintf(tw, "%s\t%g\n", consumer, d.Market[consumer])
	}

	fmt.Fprintln(tw, "-- Supply --")
	for _, resource := range d.Resources() {
		fmt.Fprintf(tw, "%s\t%g\n", resource, d.Supply[resource])
	}

	fmt.Fprintln(tw, "-- Demand --")
	for _, consumer := range d.Consumers() {
		demand, ok := d.Demand[consumer]
		if !ok {
			continue
		}
		for _, resource := range sortedKeysF(demand) {
			fmt.Fprintf(tw, "%s\t%s\t%g\n", consumer, resource, demand[resource])
		}
	}

	return tw.Flush()
}

package types

// ItemDetail is one line of an order snapshot's item listing.
type ItemDetail struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// ItemDetails is the ordered item listing stored on an order snapshot.
// It is serialized to JSON only at the storage boundary.
type ItemDetails []ItemDetail

// TotalQty sums the quantities across all lines.
func (d ItemDetails) TotalQty() int {
	total := 0
	for _, line := range d {
		total += line.Qty
	}
	return total
}

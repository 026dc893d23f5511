// Package inventory contains the pure logic of purchase sheets: serial numbering,
// filtering and statistics over products.
package inventory

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mmynk/tripsplit/internal/models"
)

var serialPattern = regexp.MustCompile(`(?i)PS-(\d+)`)

// NextSerialNumber returns the serial after the highest PS-### on the board,
// zero-padded to three digits. An empty board starts at PS-001.
func NextSerialNumber(products []models.Product) string {
	highest := 0
	for _, p := range products {
		m := serialPattern.FindStringSubmatch(p.SerialNumber)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("PS-%03d", highest+1)
}

// Filter selects products. Empty fields match everything.
type Filter struct {
	Status       models.ProductStatus
	AddedBy      string
	Subsystem    string
	SerialNumber string
}

// Apply returns the products matching every set field, in input order.
func (f Filter) Apply(products []models.Product) []models.Product {
	var out []models.Product
	for _, p := range products {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.AddedBy != "" && p.AddedBy != f.AddedBy {
			continue
		}
		if f.Subsystem != "" && p.Subsystem != f.Subsystem {
			continue
		}
		if f.SerialNumber != "" && p.SerialNumber != f.SerialNumber {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Stats summarizes a board.
type Stats struct {
	TotalProducts int
	TotalQuantity int
	TotalValue    float64
	ByStatus      map[models.ProductStatus]int
	ByPerson      map[string]int
	BySubsystem   map[string]int
}

// ComputeStats counts products by status, requester and subsystem.
func ComputeStats(products []models.Product) Stats {
	s := Stats{
		TotalProducts: len(products),
		ByStatus:      make(map[models.ProductStatus]int),
		ByPerson:      make(map[string]int),
		BySubsystem:   make(map[string]int),
	}
	for _, p := range products {
		s.TotalQuantity += p.Quantity
		s.TotalValue += p.TotalPrice
		s.ByStatus[p.Status]++
		s.ByPerson[p.AddedBy]++
		if p.Subsystem != "" {
			s.BySubsystem[p.Subsystem]++
		}
	}
	return s
}

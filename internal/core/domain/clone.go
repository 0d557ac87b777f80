package domain

import "maps"

// Clone returns a deep copy of p.
func (p POI) Clone() POI {
	c := p
	if p.Tags != nil {
		c.Tags = maps.Clone(p.Tags)
	}
	if p.Rating != nil {
		r := *p.Rating
		c.Rating = &r
	}
	if p.Distance != nil {
		d := *p.Distance
		c.Distance = &d
	}
	return c
}

// Clone returns a deep copy of a.
func (a Activity) Clone() Activity {
	c := a
	c.POI = a.POI.Clone()
	return c
}

// Clone returns a deep copy of b.
func (b DayBlock) Clone() DayBlock {
	c := b
	if b.Activities != nil {
		c.Activities = make([]Activity, len(b.Activities))
		for i, a := range b.Activities {
			c.Activities[i] = a.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of d.
func (d ItineraryDay) Clone() ItineraryDay {
	c := d
	if d.Blocks != nil {
		c.Blocks = make([]DayBlock, len(d.Blocks))
		for i, b := range d.Blocks {
			c.Blocks[i] = b.Clone()
		}
	}
	if d.Issues != nil {
		c.Issues = append([]string(nil), d.Issues...)
	}
	return c
}

// Clone returns a deep copy of t.
func (t *EditTarget) Clone() *EditTarget {
	if t == nil {
		return nil
	}
	c := *t
	if t.Block != nil {
		k := *t.Block
		c.Block = &k
	}
	return &c
}

// Clone returns a deep copy of it.
func (it *Itinerary) Clone() *Itinerary {
	if it == nil {
		return nil
	}
	c := *it
	if it.Days != nil {
		c.Days = make([]ItineraryDay, len(it.Days))
		for i, d := range it.Days {
			c.Days[i] = d.Clone()
		}
	}
	c.Metadata.LastEdit = it.Metadata.LastEdit.Clone()
	return &c
}

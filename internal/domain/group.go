package domain

// Group is an ordered set of files placed together by a grouping strategy.
// TotalSizeBytes is always the sum of the member sizes.
type Group struct {
	// Files holds the members in placement order
	Files []FileRecord

	// TotalSizeBytes is the sum of all member sizes
	TotalSizeBytes int64

	// Oversize marks a singleton whose file alone exceeds the ceiling
	Oversize bool
}

// NewGroup creates a new empty group.
func NewGroup() *Group {
	return &Group{Files: make([]FileRecord, 0)}
}

// Add appends a file to the group.
func (g *Group) Add(f FileRecord) {
	g.Files = append(g.Files, f)
	g.TotalSizeBytes += f.SizeBytes
}

// Size returns the number of files in the group.
func (g *Group) Size() int {
	return len(g.Files)
}

// Empty returns true if the group has no files.
func (g *Group) Empty() bool {
	return len(g.Files) == 0
}

// Remaining returns the capacity left under maxBytes. It is negative for an
// oversize group.
func (g *Group) Remaining(maxBytes int64) int64 {
	return maxBytes - g.TotalSizeBytes
}

// Fits reports whether f can be appended without exceeding maxBytes.
func (g *Group) Fits(f FileRecord, maxBytes int64) bool {
	return g.TotalSizeBytes+f.SizeBytes <= maxBytes
}

// Partition is the ordered result of one grouping run.
type Partition struct {
	// Method is the strategy that produced the partition
	Method Method

	// MaxGroupSizeBytes is the ceiling the partition was built against
	MaxGroupSizeBytes int64

	// Groups are in creation order
	Groups []*Group

	// Warnings collects non-fatal conditions met while grouping
	Warnings []Warning
}

// NewPartition creates an empty partition for the given method and ceiling.
func NewPartition(method Method, maxBytes int64) *Partition {
	return &Partition{
		Method:            method,
		MaxGroupSizeBytes: maxBytes,
		Groups:            make([]*Group, 0),
	}
}

// FileCount returns the total number of files across all groups.
func (p *Partition) FileCount() int {
	var n int
	for _, g := range p.Groups {
		n += len(g.Files)
	}
	return n
}

// TotalSizeBytes returns the sum of all group totals.
func (p *Partition) TotalSizeBytes() int64 {
	var total int64
	for _, g := range p.Groups {
		total += g.TotalSizeBytes
	}
	return total
}

// HasWarnings returns true if any warning was recorded.
func (p *Partition) HasWarnings() bool {
	return len(p.Warnings) > 0
}

package trace

// Role is what a highlight says about one index, used to pick a bar colour.
type Role int

const (
	RoleDefault Role = iota
	RoleRegion
	RoleCompare
	RoleSwap
	RoleReadLeft
	RoleReadRight
	RoleWrite
	RolePivot
	RoleProbe
	RoleExchange
	RoleSorted
)

var roleNames = [...]string{
	RoleDefault:   "default",
	RoleRegion:    "region",
	RoleCompare:   "compare",
	RoleSwap:      "swap",
	RoleReadLeft:  "read-left",
	RoleReadRight: "read-right",
	RoleWrite:     "write",
	RolePivot:     "pivot",
	RoleProbe:     "probe",
	RoleExchange:  "exchange",
	RoleSorted:    "sorted",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// RoleOf classifies index i under h. Point markers take precedence over the
// region that contains them.
func RoleOf(h Highlight, i int) Role {
	switch h := h.(type) {
	case Flash:
		if i >= h.L && i <= h.R {
			return RoleSorted
		}
	case Compare:
		if i == h.I || i == h.J {
			if h.Swapped {
				return RoleSwap
			}
			return RoleCompare
		}
	case Merge:
		switch {
		case i == h.WriteAt:
			return RoleWrite
		case i == h.ReadLeft:
			return RoleReadLeft
		case i == h.ReadRight:
			return RoleReadRight
		case i >= h.L && i <= h.R:
			return RoleRegion
		}
	case Partition:
		switch {
		case i == h.Exchange:
			return RoleExchange
		case i == h.Pivot:
			return RolePivot
		case i == h.Probe:
			return RoleProbe
		case i >= h.L && i <= h.R:
			return RoleRegion
		}
	}
	return RoleDefault
}

package tile

import (
	"encoding/binary"
)

// NodeType enumerates the handful of node kinds the contractibility
// oracle cares about. Most nodes are NodeTypePlain.
type NodeType int32

const (
	NodeTypePlain NodeType = iota
	NodeTypeGate
	NodeTypeTollBooth
	NodeTypeTransitStop
)

// IntersectionType narrows NodeType further for the geometry at a node;
// only NodeTypePlain nodes carry an interesting IntersectionType.
type IntersectionType int32

const (
	IntersectionPlain IntersectionType = iota
	IntersectionFork
)

// NodeInfo is one node record inside a Tile.
type NodeInfo struct {
	Lat, Lon float64

	EdgeIndex int // first outgoing edge's local index within the tile
	EdgeCount int

	AdminIndex int
	Timezone   int32

	BestRoadClass RoadClass

	LocalEdgeCount  int
	LocalHeadings   []float64 // degrees, one per local edge, forward direction
	LocalDriveable  []bool

	Type             NodeType
	IntersectionType IntersectionType

	CountryISO string
}

// RoadClass orders roads by importance; 0 is most important.
type RoadClass int32

const (
	RoadClassMotorway RoadClass = iota
	RoadClassTrunk
	RoadClassPrimary
	RoadClassSecondary
	RoadClassTertiary
	RoadClassUnclassified
	RoadClassResidential
	RoadClassServiceOther
)

var roadClassNames = [...]string{"motorway", "trunk", "primary", "secondary", "tertiary", "unclassified", "residential", "service_other"}

func (r RoadClass) String() string {
	if int(r) < 0 || int(r) >= len(roadClassNames) {
		return "unknown"
	}
	return roadClassNames[r]
}

// Use classifies what an edge is used for, independent of RoadClass.
type Use int32

const (
	UseRoad Use = iota
	UseRamp
	UseFerry
	UseConnector // trans_up / trans_down synthetic edges
)

// Surface roughly orders pavement quality; used only for an equality
// check in the contractibility oracle.
type Surface int32

// DirectedEdge is one directed-edge record inside a Tile. Several
// boolean attributes are packed into Flags the way EdgeExtraInfo packs
// RoadClass/Lanes/Roundabout/IsShortcut in the teacher's binary graph
// format; here they stay as a typed uint16 bitmask so call sites read
// as booleans. pkg/tilecodec gob-encodes the whole Tile, Flags
// included.
type DirectedEdge struct {
	EndNode GraphId

	Length float64 // meters

	Classification RoadClass
	Use            Use
	Surface        Surface

	ForwardAccess Access
	ReverseAccess Access

	Flags EdgeFlags

	Speed float64 // km/h

	LocalEdgeIdx int
	OppLocalIdx  int

	Restrictions uint32 // bitmask over local edge indices, "cannot turn into"

	EdgeInfoOffset int

	Superseded int // 1-based shortcut index this edge is covered by, 0 if none

	ShortcutIndex int // 1-based index of this edge if it is itself a shortcut, 0 otherwise

	WayID int64

	Grade int8 // 4-bit weighted grade code, see pkg/elevation
}

// Access is a bitmask of travel modes permitted on an edge in one
// direction.
type Access uint8

const (
	AccessAuto Access = 1 << iota
	AccessPedestrian
	AccessBicycle
	AccessBus
	AccessTruck
	AccessEmergency
)

// EdgeFlags packs the boolean attributes of a DirectedEdge.
type EdgeFlags uint16

const (
	FlagForward EdgeFlags = 1 << iota
	FlagLink
	FlagRoundabout
	FlagToll
	FlagDestOnly
	FlagUnpaved
	FlagShortcut
	FlagTransDown
	FlagTransUp
	FlagExitSign
	FlagAccessRestriction
	FlagInternal
)

func (f EdgeFlags) Has(bit EdgeFlags) bool { return f&bit != 0 }

func (f EdgeFlags) With(bit EdgeFlags, v bool) EdgeFlags {
	if v {
		return f | bit
	}
	return f &^ bit
}

// EdgeInfo is the variable-length side-table record an edge's
// EdgeInfoOffset points at: its shape, its way id (or -1 for a
// shortcut, see DESIGN.md open question), and its name set.
type EdgeInfo struct {
	WayID int64
	Shape []Point
	Names []string
}

type Point struct {
	Lat, Lon float64
}

// NewNode is a node placed into a coarser tile during a level
// transition.
type NewNode struct {
	BaseNode GraphId
	Contract bool
}

// EdgePairs records, for a contractible node, the (incoming, outgoing)
// base-edge pair used to cross it in each direction.
type EdgePairs struct {
	Edge1 EdgePair
	Edge2 EdgePair
}

type EdgePair struct {
	First  GraphId // incoming (opposing of an outgoing edge)
	Second GraphId // outgoing
}

// NodeConnection pairs a base node with the new-level node it was
// promoted to, for the base-tile patcher.
type NodeConnection struct {
	BaseNode GraphId
	NewNode  GraphId
}

// SignRecord is the exit-sign side table entry for one edge.
type SignRecord struct {
	EdgeIndex int
	ExitText  string
}

// AccessRestrictionRecord is the access-restriction side table entry
// for one edge.
type AccessRestrictionRecord struct {
	EdgeIndex int
	Modes     Access
	Value     int64
}

// AdminRecord is one row of a tile's admin table.
type AdminRecord struct {
	Country string
	State   string
	ISO     string
}

// EncodeFlags/DecodeFlags serialize Flags as a plain little-endian
// uint16 field.
func EncodeFlags(buf []byte, f EdgeFlags) {
	binary.LittleEndian.PutUint16(buf, uint16(f))
}

func DecodeFlags(buf []byte) EdgeFlags {
	return EdgeFlags(binary.LittleEndian.Uint16(buf))
}

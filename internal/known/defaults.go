package known

import "modelgraph/internal/decl"

var (
	str   = Entry{Kind: decl.PrimString}
	whole = Entry{Kind: decl.PrimWholeNumber}
	num   = Entry{Kind: decl.PrimNumber}
	boole = Entry{Kind: decl.PrimBoolean}
	obj   = Entry{Kind: decl.PrimObject}
	arr   = Entry{Kind: decl.PrimArray}
)

func date(sub DateKind) Entry { return Entry{Kind: decl.PrimDate, Date: sub} }

// defaults covers the standard library value types plus the handful of
// ecosystem types that are always serialized as scalars.
var defaults = map[decl.Identity]Entry{
	RootObject: obj,
	"error":    str,

	"time.Time":     date(DateDateTime),
	"time.Duration": date(DateDuration),
	"time.Month":    whole,
	"time.Weekday":  whole,
	"time.Location": str,

	"math/big.Int":   whole,
	"math/big.Float": num,
	"math/big.Rat":   str,

	"net/url.URL":      str,
	"net.IP":           str,
	"net.IPNet":        str,
	"net.HardwareAddr": str,
	"net/netip.Addr":   str,
	"net/netip.Prefix": str,
	"net/mail.Address": str,

	"encoding/json.RawMessage": obj,
	"encoding/json.Number":     num,
	"regexp.Regexp":            str,

	"database/sql.NullString":  str,
	"database/sql.NullInt64":   whole,
	"database/sql.NullInt32":   whole,
	"database/sql.NullInt16":   whole,
	"database/sql.NullByte":    whole,
	"database/sql.NullFloat64": num,
	"database/sql.NullBool":    boole,
	"database/sql.NullTime":    date(DateDateTime),

	"github.com/google/uuid.UUID":           str,
	"github.com/shopspring/decimal.Decimal": num,

	"google.golang.org/protobuf/types/known/timestamppb.Timestamp":  date(DateDateTime),
	"google.golang.org/protobuf/types/known/durationpb.Duration":    date(DateDuration),
	"google.golang.org/protobuf/types/known/structpb.Struct":        obj,
	"google.golang.org/protobuf/types/known/structpb.Value":         obj,
	"google.golang.org/protobuf/types/known/structpb.ListValue":     arr,
	"google.golang.org/protobuf/types/known/anypb.Any":              obj,
	"google.golang.org/protobuf/types/known/wrapperspb.StringValue": str,
	"google.golang.org/protobuf/types/known/wrapperspb.BoolValue":   boole,
	"google.golang.org/protobuf/types/known/wrapperspb.Int64Value":  whole,
	"google.golang.org/protobuf/types/known/wrapperspb.DoubleValue": num,
}

package hostrpc

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/selfswitch/internal/command"
)

// #region field-names
const (
	fieldCommand      = "command"
	fieldArgs         = "args"
	fieldInvocationID = "invocation_id"
	fieldDecision     = "decision"
	fieldReason       = "reason"
	fieldMapID        = "map_id"
	fieldWrites       = "writes"
	fieldUpdates      = "updates"
	fieldEventID      = "event_id"
	fieldSwitch       = "switch"
	fieldValue        = "value"
)

// #endregion field-names

// #region types

// Reply is the client-side view of a dispatched command.
type Reply struct {
	InvocationID string
	Decision     string
	Reason       string
	MapID        int
	Writes       int
	Updates      []SwitchWrite
}

// SwitchWrite is one switch written by the command.
type SwitchWrite struct {
	EventID int
	Switch  string
	Value   bool
}

// #endregion types

// #region request

func encodeRequest(name string, args map[string]string) (*structpb.Struct, error) {
	argv := make(map[string]any, len(args))
	for k, v := range args {
		argv[k] = v
	}
	req, err := structpb.NewStruct(map[string]any{
		fieldCommand: name,
		fieldArgs:    argv,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return req, nil
}

// decodeRequest accepts string, number and bool argument values.
func decodeRequest(req *structpb.Struct) (string, map[string]string, error) {
	fields := req.GetFields()
	name := fields[fieldCommand].GetStringValue()
	if name == "" {
		return "", nil, fmt.Errorf("missing %q", fieldCommand)
	}

	args := map[string]string{}
	for k, v := range fields[fieldArgs].GetStructValue().GetFields() {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			args[k] = kind.StringValue
		case *structpb.Value_NumberValue:
			args[k] = strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
		case *structpb.Value_BoolValue:
			args[k] = strconv.FormatBool(kind.BoolValue)
		default:
			return "", nil, fmt.Errorf("argument %q must be a string, number or bool", k)
		}
	}
	return name, args, nil
}

// #endregion request

// #region reply

func encodeReply(res command.Result) *structpb.Struct {
	updates := make([]any, len(res.Updates))
	for i, u := range res.Updates {
		updates[i] = map[string]any{
			fieldEventID: u.Key.EventID,
			fieldSwitch:  string(u.Key.Switch),
			fieldValue:   u.Value,
		}
	}
	// Only strings, numbers, bools, []any and map[string]any go in, so
	// NewStruct cannot fail here.
	reply, _ := structpb.NewStruct(map[string]any{
		fieldInvocationID: res.InvocationID,
		fieldDecision:     res.Decision,
		fieldReason:       res.Reason,
		fieldMapID:        res.MapID,
		fieldWrites:       res.Writes(),
		fieldUpdates:      updates,
	})
	return reply
}

func decodeReply(s *structpb.Struct) Reply {
	f := s.GetFields()
	r := Reply{
		InvocationID: f[fieldInvocationID].GetStringValue(),
		Decision:     f[fieldDecision].GetStringValue(),
		Reason:       f[fieldReason].GetStringValue(),
		MapID:        int(f[fieldMapID].GetNumberValue()),
		Writes:       int(f[fieldWrites].GetNumberValue()),
	}
	for _, v := range f[fieldUpdates].GetListValue().GetValues() {
		u := v.GetStructValue().GetFields()
		r.Updates = append(r.Updates, SwitchWrite{
			EventID: int(u[fieldEventID].GetNumberValue()),
			Switch:  u[fieldSwitch].GetStringValue(),
			Value:   u[fieldValue].GetBoolValue(),
		})
	}
	return r
}

// #endregion reply

package taskfile

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/joshharrison/procsched/internal/schederr"
)

// ParseJSON accepts {"tasks":[...]} or a bare array of
// {"id":N,"duration":N,"deps":[...]} objects.
func ParseJSON(data []byte) (*File, error) {
	if !gjson.ValidBytes(data) {
		return nil, schederr.Validationf("malformed JSON task file")
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("tasks")
		if !list.Exists() {
			return nil, schederr.Validationf("JSON task file has no \"tasks\" array")
		}
	}
	if !list.IsArray() {
		return nil, schederr.Validationf("JSON \"tasks\" must be an array")
	}

	f := &File{}
	var parseErr error
	pos := 0
	list.ForEach(func(_, v gjson.Result) bool {
		pos++
		rt, err := jsonTask(v, pos)
		if err != nil {
			parseErr = err
			return false
		}
		f.Tasks = append(f.Tasks, rt)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	f.Declared = len(f.Tasks)
	return f, nil
}

func jsonTask(v gjson.Result, pos int) (RawTask, error) {
	if !v.IsObject() {
		return RawTask{}, schederr.Validationf("task #%d: expected an object", pos)
	}
	id, err := jsonInt(v.Get("id"), pos, "id")
	if err != nil {
		return RawTask{}, err
	}
	dur, err := jsonInt(v.Get("duration"), pos, "duration")
	if err != nil {
		return RawTask{}, err
	}

	rt := RawTask{ID: id, Duration: dur, Deps: []int{}}
	deps := v.Get("deps")
	if !deps.Exists() {
		return rt, nil
	}
	if !deps.IsArray() {
		return RawTask{}, schederr.Validationf("task #%d: \"deps\" must be an array", pos)
	}
	for _, d := range deps.Array() {
		n, err := jsonInt(d, pos, "deps")
		if err != nil {
			return RawTask{}, err
		}
		rt.Deps = append(rt.Deps, n)
	}
	return rt, nil
}

func jsonInt(r gjson.Result, pos int, field string) (int, error) {
	if !r.Exists() {
		return 0, schederr.Validationf("task #%d: missing %q", pos, field)
	}
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		return 0, schederr.Validationf("task #%d: %q must be an integer, got %s", pos, field, r.Raw)
	}
	return int(r.Int()), nil
}

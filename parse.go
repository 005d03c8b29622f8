package opterator

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/arran4/go-opterator/model"
)

// slotValue is the pflag.Value behind every spelling of one option slot.
type slotValue struct {
	slot  model.OptionSlot
	set   bool
	flag  bool
	text  string
	items []string
	// err is the last rejected choice, reported instead of pflag's wrapped message.
	err error
}

var _ pflag.Value = (*slotValue)(nil)

func (v *slotValue) Set(s string) error {
	switch v.slot.Policy {
	case model.FlagTrue, model.FlagFalse:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.flag = b
	case model.Store:
		v.text = s
	case model.Append:
		if !slices.Contains(v.slot.Choices, s) {
			v.err = fmt.Errorf("invalid choice: %q (choose from %s)", s, quoteAll(v.slot.Choices))
			return v.err
		}
		v.items = append(v.items, s)
	case model.AppendUnbounded:
		v.items = append(v.items, s)
	}
	v.set = true
	return nil
}

func (v *slotValue) String() string {
	if !v.set {
		return v.slot.Default.String()
	}
	switch v.slot.Policy {
	case model.FlagTrue, model.FlagFalse:
		return strconv.FormatBool(v.flag)
	case model.Store:
		return v.text
	}
	return "[" + strings.Join(v.items, ",") + "]"
}

func (v *slotValue) Type() string {
	switch v.slot.Policy {
	case model.FlagTrue, model.FlagFalse:
		return "bool"
	case model.Append, model.AppendUnbounded:
		return "stringArray"
	}
	return "string"
}

// value is what the option resolves to for the call.
func (v *slotValue) value() any {
	if !v.set {
		return v.slot.Default.Value()
	}
	switch v.slot.Policy {
	case model.FlagTrue, model.FlagFalse:
		return v.flag
	case model.Store:
		return v.text
	}
	return slices.Clone(v.items)
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}

// flagSet registers every spelling of every option on a fresh pflag.FlagSet. pflag wants a
// long name for every flag, so short spellings without a long counterpart get a name
// starting with "-", which pflag can never match from the command line.
func (p *Parser) flagSet() (*pflag.FlagSet, map[string]*slotValue) {
	fs := pflag.NewFlagSet(p.model.Program, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SetInterspersed(true)

	values := make(map[string]*slotValue, len(p.model.Options))
	for _, o := range p.model.Options {
		v := &slotValue{slot: o}
		values[o.Name] = v

		longs, shorts := o.Longs(), o.Shorts()
		var registered []*pflag.Flag
		for i, l := range longs {
			short := ""
			if i < len(shorts) {
				short = shorts[i]
			}
			registered = append(registered, fs.VarPF(v, l, short, o.Help))
		}
		for i := len(longs); i < len(shorts); i++ {
			f := fs.VarPF(v, "-"+o.Name+"-"+shorts[i], shorts[i], o.Help)
			f.Hidden = true
			registered = append(registered, f)
		}
		for _, f := range registered {
			switch o.Policy {
			case model.FlagTrue:
				f.NoOptDefVal = "true"
			case model.FlagFalse:
				f.NoOptDefVal = "false"
			}
		}
	}
	return fs, values
}

// parseFlags runs the underlying flag parse and returns the raw result.
func (p *Parser) parseFlags(args []string) (*model.ParsedResult, error) {
	fs, values := p.flagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		for _, v := range values {
			if v.err != nil {
				return nil, &InvocationError{Param: v.slot.Name, Message: v.err.Error(), Err: err}
			}
		}
		return nil, &InvocationError{Message: err.Error(), Err: err}
	}
	res := &model.ParsedResult{
		Options:     make(map[string]any, len(values)),
		Positionals: fs.Args(),
	}
	for name, v := range values {
		res.Options[name] = v.value()
	}
	return res, nil
}

// Parse parses args and adapts the result to the signature's call order. It performs no
// output: help yields ErrHelp and every other failure an *InvocationError.
func (p *Parser) Parse(args []string) (*Call, error) {
	res, err := p.parseFlags(args)
	if err != nil {
		p.logger.Debug("argument parse failed", zap.Strings("argv", args), zap.Error(err))
		return nil, err
	}
	call, err := Adapt(res, p.sig)
	if err != nil {
		p.logger.Debug("argument adaptation failed", zap.Strings("argv", args), zap.Error(err))
		return nil, err
	}
	p.logger.Debug("arguments parsed",
		zap.Strings("argv", args),
		zap.Int("positionals", len(res.Positionals)),
		zap.Int("rest", len(call.Rest)))
	return call, nil
}

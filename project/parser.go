package project

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// Type names used in the _TYPE defines of a parameter header.
const (
	TypeFixpoint = "SIGMASTUDIOTYPE_FIXPOINT"
	TypeInteger  = "SIGMASTUDIOTYPE_INTEGER"
)

var (
	defineRe  = regexp.MustCompile(`^#define\s+(\w+)\s+(.+?)\s*$`)
	moduleRe  = regexp.MustCompile(`^/\*\s*Module\s+(.+?)\s+-\s+(.*?)\s*\*/$`)
	regRe     = regexp.MustCompile(`^REG_(\w+?)_IC_\d+_(ADDR|BYTE|VALUE)$`)
	arrayRe   = regexp.MustCompile(`ADI_REG_TYPE\s+(\w+)\s*\[[^\]]*\]\s*=\s*\{(.*)$`)
	writeRe   = regexp.MustCompile(`SIGMA_WRITE_REGISTER_BLOCK\s*\((.*)\)\s*;`)
	includeRe = regexp.MustCompile(`^#include\s+"([^"]+)"`)
)

// ParseFile opens path and hands it to one of the Parse functions.
//
// Example:
//
//	params, err := project.ParseFile("Export/volume_IC_1_PARAM.h", project.ParseParams)
func ParseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parse(f)
}

// ParseParams parses a SigmaStudio parameter header (*_PARAM.h).
//
// Each block starts with a "/* Module <name> - <type>*/" comment followed by
// its _COUNT and _DEVICE defines and four defines per cell:
//
//	#define MOD_SWVOL1_ALG0_TARGET_ADDR    0
//	#define MOD_SWVOL1_ALG0_TARGET_FIXPT   0x00800000
//	#define MOD_SWVOL1_ALG0_TARGET_VALUE   SIGMASTUDIOTYPE_FIXPOINT_CONVERT(1)
//	#define MOD_SWVOL1_ALG0_TARGET_TYPE    SIGMASTUDIOTYPE_FIXPOINT
func ParseParams(r io.Reader) (*Params, error) {
	p := &Params{}
	var cur *Module
	kinds := make(map[string]fixed.Kind)

	err := scanLines(r, func(lineNum int, line string) error {
		if m := moduleRe.FindStringSubmatch(line); m != nil {
			cur = &Module{Name: m[1], Description: m[2]}
			p.Modules = append(p.Modules, cur)
			return nil
		}

		name, value, ok := parseDefine(line)
		if !ok || !strings.HasPrefix(name, "MOD_") {
			return nil
		}
		if cur == nil {
			return fmt.Errorf("line %d: %s outside a module", lineNum, name)
		}

		base, suffix := splitSuffix(name)
		switch suffix {
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("line %d: invalid count %q", lineNum, value)
			}
			cur.Count = n
		case "DEVICE":
			cur.Device = strings.Trim(value, `"`)
		case "ADDR":
			addr, err := parseNumber(value, 16)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
			cur.Params = append(cur.Params, Param{Name: base, Address: uint16(addr)})
		case "FIXPT":
			c := findParam(cur, base)
			if c == nil {
				return fmt.Errorf("line %d: %s before its address", lineNum, name)
			}
			raw, err := parseNumber(value, 32)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
			c.Raw = uint32(raw)
		case "TYPE":
			switch value {
			case TypeFixpoint:
				kinds[base] = fixed.KindFloat
			case TypeInteger:
				kinds[base] = fixed.KindInt
			default:
				return fmt.Errorf("line %d: unknown parameter type %q", lineNum, value)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, m := range p.Modules {
		for i := range m.Params {
			c := &m.Params[i]
			if kinds[c.Name] == fixed.KindInt {
				c.Value = fixed.Int(int32(c.Raw))
			} else {
				c.Value = fixed.Float(fixed.Decode(fixed.EncodeInt(int32(c.Raw))))
			}
		}
	}

	if len(p.Modules) == 0 {
		return nil, fmt.Errorf("no modules found in file")
	}
	return p, nil
}

func findParam(m *Module, base string) *Param {
	for i := len(m.Params) - 1; i >= 0; i-- {
		if m.Params[i].Name == base {
			return &m.Params[i]
		}
	}
	return nil
}

// ParseRegisters parses a SigmaStudio register header (*_REG.h):
//
//	#define REG_COREREGISTER_IC_1_ADDR    0x81C
//	#define REG_COREREGISTER_IC_1_BYTE    2
//	#define REG_COREREGISTER_IC_1_VALUE   0x1C
//
// Registers are returned in file order.
func ParseRegisters(r io.Reader) ([]Register, error) {
	var regs []Register
	index := make(map[string]int)

	err := scanLines(r, func(lineNum int, line string) error {
		name, value, ok := parseDefine(line)
		if !ok {
			return nil
		}
		m := regRe.FindStringSubmatch(name)
		if m == nil {
			return nil
		}

		i, seen := index[m[1]]
		if !seen {
			i = len(regs)
			index[m[1]] = i
			regs = append(regs, Register{Name: m[1]})
		}

		n, err := parseNumber(value, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		switch m[2] {
		case "ADDR":
			if n > 0xFFFF {
				return fmt.Errorf("line %d: address 0x%X out of range", lineNum, n)
			}
			regs[i].Address = uint16(n)
		case "BYTE":
			if n == 0 || n > 8 {
				return fmt.Errorf("line %d: invalid register size %d", lineNum, n)
			}
			regs[i].Size = int(n)
		case "VALUE":
			regs[i].Value = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(regs) == 0 {
		return nil, fmt.Errorf("no registers found in file")
	}
	return regs, nil
}

// LoadDownload parses the default download of the IC header at path. Headers
// it includes are read from the same directory when they exist, so register
// addresses defined in the *_REG.h file resolve.
func LoadDownload(path string) ([]Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var includes []io.Reader
	err = scanLines(f, func(_ int, line string) error {
		m := includeRe.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		inc, err := os.Open(filepath.Join(filepath.Dir(path), m[1]))
		if err != nil {
			// SigmaStudioFW.h and friends are platform glue without data
			return nil
		}
		defer func() { _ = inc.Close() }()

		text, err := io.ReadAll(inc)
		if err != nil {
			return fmt.Errorf("read %s: %w", m[1], err)
		}
		includes = append(includes, bytes.NewReader(text))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}
	return ParseDownload(f, includes...)
}

// ParseDownload parses the default download of a SigmaStudio IC header
// (*_IC_1.h): the ADI_REG_TYPE data arrays and the SIGMA_WRITE_REGISTER_BLOCK
// calls that send them, in call order. Defines from includes, typically the
// *_REG.h header, are visible to the calls.
//
// The register size of a block comes from the matching _REGSIZE define
// (PROGRAM_ADDR_IC_1 uses PROGRAM_REGSIZE_IC_1). Blocks without one are
// written as a single register.
func ParseDownload(r io.Reader, includes ...io.Reader) ([]Block, error) {
	defines := make(map[string]uint64)
	arrays := make(map[string][]byte)
	var blocks []Block

	for _, inc := range includes {
		err := scanLines(inc, func(_ int, line string) error {
			if name, value, ok := parseDefine(line); ok {
				if n, err := parseNumber(value, 64); err == nil {
					defines[name] = n
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var arrayName string
	var arrayText strings.Builder

	err := scanLines(r, func(lineNum int, line string) error {
		if arrayName != "" {
			arrayText.WriteString(line)
			arrayText.WriteByte(',')
			if strings.Contains(line, "}") {
				return closeArray(arrays, &arrayName, &arrayText, lineNum)
			}
			return nil
		}

		if m := arrayRe.FindStringSubmatch(line); m != nil {
			arrayName = m[1]
			arrayText.Reset()
			arrayText.WriteString(m[2])
			arrayText.WriteByte(',')
			if strings.Contains(m[2], "}") {
				return closeArray(arrays, &arrayName, &arrayText, lineNum)
			}
			return nil
		}

		if name, value, ok := parseDefine(line); ok {
			if n, err := parseNumber(value, 64); err == nil {
				defines[name] = n
			}
			return nil
		}

		m := writeRe.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		b, err := parseWrite(m[1], defines, arrays)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if arrayName != "" {
		return nil, fmt.Errorf("unterminated array %s", arrayName)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("no register block writes found in file")
	}
	return blocks, nil
}

func closeArray(arrays map[string][]byte, name *string, text *strings.Builder, lineNum int) error {
	body := text.String()
	body = body[:strings.Index(body, "}")]

	data, err := parseBytes(body)
	if err != nil {
		return fmt.Errorf("line %d: array %s: %w", lineNum, *name, err)
	}
	arrays[*name] = data
	*name = ""
	return nil
}

// parseWrite resolves the arguments of
// SIGMA_WRITE_REGISTER_BLOCK(device, address, length, data).
func parseWrite(args string, defines map[string]uint64, arrays map[string][]byte) (Block, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 4 {
		return Block{}, fmt.Errorf("register block write needs 4 arguments, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	addrArg, sizeArg, dataArg := parts[1], parts[2], parts[3]

	addr, err := resolve(addrArg, defines)
	if err != nil {
		return Block{}, err
	}
	if addr > 0xFFFF {
		return Block{}, fmt.Errorf("address 0x%X out of range", addr)
	}
	size, err := resolve(sizeArg, defines)
	if err != nil {
		return Block{}, err
	}

	data, ok := arrays[dataArg]
	if !ok {
		return Block{}, fmt.Errorf("undefined data array %s", dataArg)
	}
	if uint64(len(data)) < size {
		return Block{}, fmt.Errorf("array %s has %d bytes, write needs %d", dataArg, len(data), size)
	}

	regSize := int(size)
	if strings.Contains(addrArg, "_ADDR") {
		if n, ok := defines[strings.Replace(addrArg, "_ADDR", "_REGSIZE", 1)]; ok && n > 0 {
			regSize = int(n)
		}
	}
	if regSize == 0 || int(size)%regSize != 0 {
		return Block{}, fmt.Errorf("array %s: %d bytes is not a whole number of %d-byte registers", dataArg, size, regSize)
	}

	return Block{
		Name:         dataArg,
		Address:      uint16(addr),
		RegisterSize: regSize,
		Data:         append([]byte(nil), data[:size]...),
	}, nil
}

func resolve(arg string, defines map[string]uint64) (uint64, error) {
	if n, err := parseNumber(arg, 64); err == nil {
		return n, nil
	}
	n, ok := defines[arg]
	if !ok {
		return 0, fmt.Errorf("undefined symbol %s", arg)
	}
	return n, nil
}

// ParseHexImage parses an EEPROM image as exported by SigmaStudio
// (E2Prom.Hex): a comma separated list of byte literals such as "0x01, 0x00,".
func ParseHexImage(r io.Reader) ([]byte, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data, err := parseBytes(string(text))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no data found in file")
	}
	return data, nil
}

func parseBytes(text string) ([]byte, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	data := make([]byte, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("byte %d: invalid value %q", i, f)
		}
		data = append(data, byte(v))
	}
	return data, nil
}

// scanLines calls fn for each trimmed line of r, with 1-based line numbers.
func scanLines(r io.Reader, fn func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

func parseDefine(line string) (name, value string, ok bool) {
	m := defineRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func splitSuffix(name string) (base, suffix string) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

func parseNumber(s string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"talon/engine"
	tm "talon/talonmg"
)

const (
	engineName   = "Talon 1.0"
	engineAuthor = "the Talon authors"
)

func main() {
	uciLoop()
}

func uciLoop() {
	opts := engine.DefaultOptions()
	eng := engine.New(opts)
	eng.SetOutput(os.Stdout)

	searching := make(chan struct{}, 1)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name " + engineName)
			fmt.Println("id author " + engineAuthor)
			fmt.Printf("option name Hash type spin default %d min 1 max 4096\n", opts.HashMB)
			fmt.Printf("option name AspirationWindow type spin default %d min 0 max 500\n", opts.AspirationWindowCP)
			fmt.Printf("option name NullMoveReduction type spin default %d min 1 max 4\n", opts.NullMoveReduction)
			fmt.Printf("option name LMRMinMoveIndex type spin default %d min 1 max 32\n", opts.LMRMinMoveIndex)
			fmt.Println("option name ShowCutStats type check default false")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			eng.NewGame()
		case "setoption":
			handleSetOption(eng, &opts, tokens)
		case "position":
			if err := handlePosition(eng, tokens); err != nil {
				fmt.Printf("info string %v\n", err)
			}
		case "go":
			limits := parseGoLimits(tokens[1:])
			select {
			case searching <- struct{}{}:
			default:
				fmt.Println("info string search already running")
				continue
			}
			go func() {
				res, err := eng.Search(limits)
				if err != nil {
					fmt.Printf("info string %v\n", err)
					fmt.Println("bestmove 0000")
					<-searching
					return
				}
				if res.BestMove == tm.NullMove {
					fmt.Println("bestmove 0000")
				} else {
					fmt.Printf("bestmove %s\n", res.BestMove)
				}
				<-searching
			}()
		case "stop":
			eng.Stop()
		case "eval":
			pos := eng.Position()
			fmt.Printf("info string static eval %d cp\n", engine.Evaluate(pos))
		case "fen":
			fmt.Println(eng.FEN())
		case "quit":
			return
		}
	}
}

func handleSetOption(eng *engine.Engine, opts *engine.Options, tokens []string) {
	// setoption name <id> value <x>
	name, value := "", ""
	for i := 1; i < len(tokens)-1; i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			name = tokens[i+1]
		case "value":
			value = tokens[i+1]
		}
	}
	n, err := strconv.Atoi(value)
	switch strings.ToLower(name) {
	case "hash":
		if err == nil {
			eng.SetHashMB(n)
		}
	case "aspirationwindow":
		if err == nil {
			opts.AspirationWindowCP = n
			eng.SetOptions(*opts)
		}
	case "nullmovereduction":
		if err == nil {
			opts.NullMoveReduction = n
			eng.SetOptions(*opts)
		}
	case "lmrminmoveindex":
		if err == nil {
			opts.LMRMinMoveIndex = n
			eng.SetOptions(*opts)
		}
	case "showcutstats":
		opts.ShowCutStats = strings.EqualFold(value, "true")
		eng.SetOptions(*opts)
	default:
		fmt.Printf("info string unknown option %q\n", name)
	}
}

func handlePosition(eng *engine.Engine, tokens []string) error {
	// position (startpos | fen <6 fields>) [moves m1 m2 ...]
	if len(tokens) < 2 {
		return fmt.Errorf("malformed position command")
	}
	i := 1
	switch tokens[i] {
	case "startpos":
		if err := eng.SetPositionFEN(tm.StartFEN); err != nil {
			return err
		}
		i++
	case "fen":
		if len(tokens) < i+7 {
			return fmt.Errorf("position fen needs six fields")
		}
		fen := strings.Join(tokens[i+1:i+7], " ")
		if err := eng.SetPositionFEN(fen); err != nil {
			return err
		}
		i += 7
	default:
		return fmt.Errorf("unknown position mode %q", tokens[i])
	}
	if i < len(tokens) && tokens[i] == "moves" {
		for _, mv := range tokens[i+1:] {
			if err := eng.PlayMove(mv); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseGoLimits(tokens []string) engine.Limits {
	var limits engine.Limits
	intArg := func(i int) int {
		if i+1 >= len(tokens) {
			return 0
		}
		n, _ := strconv.Atoi(tokens[i+1])
		return n
	}
	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "infinite":
			limits.Infinite = true
		case "wtime":
			limits.WhiteTimeMS = intArg(i)
			i++
		case "btime":
			limits.BlackTimeMS = intArg(i)
			i++
		case "winc":
			limits.WhiteIncMS = intArg(i)
			i++
		case "binc":
			limits.BlackIncMS = intArg(i)
			i++
		case "movestogo":
			limits.MovesToGo = intArg(i)
			i++
		case "movetime":
			limits.MoveTimeMS = intArg(i)
			i++
		case "depth":
			limits.Depth = intArg(i)
			i++
		case "nodes":
			if i+1 < len(tokens) {
				limits.Nodes, _ = strconv.ParseUint(tokens[i+1], 10, 64)
			}
			i++
		}
	}
	// A bare "go" carries no bound at all; treat it as infinite.
	if limits == (engine.Limits{}) {
		limits.Infinite = true
	}
	return limits
}

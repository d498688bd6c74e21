package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"vesting/config"
	"vesting/db"
	"vesting/derive"
	"vesting/logs"
	"vesting/vm"
)

func main() {
	// 1. 解析命令行参数
	var (
		dataPath    = flag.String("data", "./data", "database directory")
		genesisFile = flag.String("genesis", "", "optional JSON file with initial token balances")
		ixFile      = flag.String("ix", "", "instruction file, one JSON instruction per line")
		listState   = flag.Bool("list", false, "dump all vesting records and receipts after execution")
		seedHex     = flag.String("derive", "", "print derived custody addresses for a seed key and exit")
		logLevel    = flag.Int("log-level", logs.LevelInfo, "log level (0=trace .. 5=error)")
	)
	flag.Parse()
	logs.SetLevel(*logLevel)

	// 只查推导地址时不需要打开数据库
	if *seedHex != "" {
		if err := printDerived(*seedHex); err != nil {
			logs.Error("derive: %v", err)
			os.Exit(1)
		}
		return
	}

	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		logs.Error("config: %v", err)
		os.Exit(1)
	}

	manager, err := db.NewManager(*dataPath, cfg)
	if err != nil {
		logs.Error("open database: %v", err)
		os.Exit(1)
	}
	defer manager.Close()

	if *genesisFile != "" {
		if err := loadGenesisBalances(manager, *genesisFile); err != nil {
			logs.Error("load genesis balances: %v", err)
			os.Exit(1)
		}
	}

	registry := vm.NewHandlerRegistry()
	if err := vm.RegisterDefaultHandlers(registry); err != nil {
		logs.Error("register handlers: %v", err)
		os.Exit(1)
	}
	executor := vm.NewExecutor(manager, registry, vm.NewReceiptCache(cfg.Engine.ReceiptCacheSize))

	if *ixFile == "" && !*listState {
		logs.Info("nothing to do: pass -ix <file>, -list or -derive <seed>")
		return
	}
	if *ixFile != "" {
		if err := runInstructionFile(executor, *ixFile); err != nil {
			logs.Error("run instructions: %v", err)
			os.Exit(1)
		}
	}
	if *listState {
		if err := dumpState(manager, executor); err != nil {
			logs.Error("list state: %v", err)
			os.Exit(1)
		}
	}
}

// printDerived 打印一个 seed key 对应的三个托管账户地址
func printDerived(seedHex string) error {
	seed, err := derive.ParseSeedKey(seedHex)
	if err != nil {
		return err
	}
	fmt.Printf("program:    %s\n", derive.ProgramID().Hex())
	fmt.Printf("vesting:    %s\n", derive.MustDerive(derive.RoleVesting, seed).Hex())
	fmt.Printf("vault:      %s\n", derive.MustDerive(derive.RoleVault, seed).Hex())
	fmt.Printf("distribute: %s\n", derive.MustDerive(derive.RoleDistribute, seed).Hex())
	return nil
}

// dumpState 打印全部归属记录与回执
func dumpState(manager *db.Manager, executor *vm.Executor) error {
	sv := vm.NewStateView(manager.Get, manager.Scan)
	vestings, err := vm.ListVestings(sv)
	if err != nil {
		return err
	}
	for addr, rec := range vestings {
		fmt.Printf("vesting %s: beneficiary=%s mint=%s amount=%d claimed=%d start=%d cliff=%d duration=%d\n",
			addr, rec.Beneficiary.Hex(), rec.Mint.Hex(), rec.Amount, rec.Claimed, rec.Start, rec.Cliff, rec.Duration)
	}

	receipts, err := executor.ListReceipts()
	if err != nil {
		return err
	}
	for ixID, rc := range receipts {
		fmt.Printf("receipt %s: kind=%s status=%s moved=%s\n", ixID, rc.Kind, rc.Status, rc.Moved)
	}
	return nil
}

// loadGenesisBalances 导入初始余额（JSON 数组：address/mint/balance）
func loadGenesisBalances(manager *db.Manager, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var balances []struct {
		Address string `json:"address"`
		Mint    string `json:"mint"`
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(raw, &balances); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, b := range balances {
		v, err := vm.ParseBalance(b.Balance)
		if err != nil {
			return fmt.Errorf("balance for %s/%s: %w", b.Address, b.Mint, err)
		}
		op := vm.BalanceWriteOp(b.Address, b.Mint, v)
		manager.EnqueueSet(op.Key, string(op.Value))
	}
	if err := manager.ForceFlush(); err != nil {
		return err
	}
	logs.Info("loaded %d genesis balances from %s", len(balances), path)
	return nil
}

// runInstructionFile 逐行执行指令文件并把回执打到标准输出
func runInstructionFile(executor *vm.Executor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		ix, err := vm.DecodeInstruction(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		rc, err := executor.Execute(ix)
		if err != nil {
			return fmt.Errorf("line %d (ix %s): %w", lineNo, ix.ID, err)
		}
		if err := out.Encode(rc); err != nil {
			return err
		}
	}
	return scanner.Err()
}

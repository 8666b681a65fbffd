/*
Package config manages configuration parsing and validation for stylecheck.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Loads .stylecheck.{yaml,yml,hcl,json} from the working directory
- Validates values and fills in defaults
- Builds the active rule set from the built-in catalog and custom rules

🔄 Flow:
1. Find locates the config file (or Default is used)
2. The parser registered for the extension decodes it
3. Validate normalizes tags, durations and rule declarations
4. RuleSet compiles custom rules and applies enable/disable globs

🤝 Interfaces:
- Parser: format-specific decoding, registered from init

🔍 Example:

	cfg, err := config.Load(ctx, ".stylecheck.hcl")
	if err != nil {
		return err
	}

	set, err := cfg.RuleSet()
	if err != nil {
		return err
	}

HCL files can read the environment through the env object:

	grammar {
	  enabled  = true
	  endpoint = env.LANGUAGETOOL_URL
	}
*/
package config

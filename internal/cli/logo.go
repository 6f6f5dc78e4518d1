package cli

const asciiLogo = `
  _ __   __ _ __  ___ __ ___
 | '_ \ / _' |\ \/ / '_ ' _ \
 | |_) | (_| | >  <| | | | | |
 | .__/ \__, |/_/\_\_| |_| |_|
 |_|    |___/`

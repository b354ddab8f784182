// 12 Oct 2026
/*

resdepth calculates residue depth for a protein structure. The depth of
an atom is its distance to the nearest vertex of the solvent excluded
surface. The depth of a residue is the average over its atoms. We also
give the depth of the C alpha atom, or -1 if there is none.

The surface comes from two external programs, pdb_to_xyzr and msms,
which have to be installed. The probe radius is 1.5 Angstrom.

Usage:
 resdepth [options] structure.pdb [more.pdb ...]

Output is one line per residue of the first model, like
 SER A 2 (4.6997, 5.0000)
which is residue name, chain, number with any insertion code, then
residue depth and C alpha depth. Hetero residues have H_ in front of
the number.

With more than one structure, each block of output starts with a line
 # name
Blocks come in the order the structures were given. If one structure
fails, the others are still done and the exit status is 1.

Flags:
  -c file.yaml
	Read settings from a yaml file. Keys are xyzr, msms, tmpdir,
	cleanup, minfreemb and cachedir. Flags override the file.
  -x program
	The pdb_to_xyzr program. It may carry its own arguments, so
	"pdb_to_xyzr -h" works.
  -m program
	The msms program, likewise.
  -k policy
	What to do with the scratch directory. "always" removes it,
	"onerror" keeps it if something went wrong, "keep" never removes
	it. The default is always.
  -cache dir
	Keep surfaces in a database in dir. A structure file that has been
	seen before, with the same programs, does not go through msms again.
  -plot file.png
	Draw a bar chart of residue depths. With more than one structure,
	the files are numbered in order, file_1.png, file_2.png and so on.
  -p
	The arguments are four letter pdb codes. Structures are downloaded
	first.
  -r N
	With more than one structure, work on N at once. Default 3.
  -v
	Say more about what is going on.

Input may be gzipped. It is decompressed to a temporary file before
pdb_to_xyzr sees it. mmcif files are not read.

*/
package main
